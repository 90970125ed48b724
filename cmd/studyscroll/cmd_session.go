// cmd/studyscroll/cmd_session.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/studyscroll/internal/types"
)

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionStatusCmd)
	rootCmd.AddCommand(sessionCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect stored study sessions",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a session's cards",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Report whether a session's audio is ready",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionStatus,
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sessions, _, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}

	id := types.SessionID(args[0])
	doc, err := sessions.Load(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Topic: %s\n", doc.Topic)
	for i, card := range doc.Cards {
		fmt.Printf("  %2d. [%s] %s\n", i+1, card.Kind, cardHeadline(card))
	}
	return nil
}

func runSessionStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sessions, _, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}

	id := types.SessionID(args[0])
	if _, err := sessions.Load(ctx, id); err != nil {
		return err
	}
	ready, err := sessions.AudioExists(ctx, id)
	if err != nil {
		return err
	}
	if ready {
		fmt.Println("audio: ready")
	} else {
		fmt.Println("audio: pending")
	}
	return nil
}

func cardHeadline(card types.Card) string {
	if card.Title != "" {
		return card.Title
	}
	return card.Question
}
