// cmd/studyscroll/cmd_generate.go
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/studyscroll/internal/content"
	"github.com/user/studyscroll/internal/speech"
)

var generateWithAudio bool

func init() {
	generateCmd.Flags().BoolVar(&generateWithAudio, "audio", false, "also synthesize narration audio")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate a study feed from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	topic := strings.Join(args, " ")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sessions, _, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	generator, err := newGenerator(cfg)
	if err != nil {
		return fmt.Errorf("create card generator: %w", err)
	}

	cards, err := generator.Cards(ctx, topic)
	if err != nil {
		return fmt.Errorf("generate cards: %w", err)
	}
	id, err := sessions.Create(ctx, topic, cards)
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	fmt.Printf("Session: %s\n", id)
	fmt.Printf("Viewer:  %s?session=%s\n", cfg.BaseURL, id)
	for i, card := range cards {
		fmt.Printf("  %2d. [%s] %s\n", i+1, card.Kind, cardHeadline(card))
	}

	if !generateWithAudio {
		return nil
	}

	synth, err := speech.NewGoogle(ctx, speech.Options{
		Language:     cfg.TTS.Language,
		Voice:        cfg.TTS.Voice,
		SpeakingRate: cfg.TTS.SpeakingRate,
	})
	if err != nil {
		return fmt.Errorf("create speech client: %w", err)
	}
	defer synth.Close()

	staged := sessions.StagingPath(id)
	if err := synth.Synthesize(ctx, content.Script(topic, cards), staged); err != nil {
		return fmt.Errorf("synthesize audio: %w", err)
	}
	if err := sessions.SaveAudio(ctx, id, staged); err != nil {
		return fmt.Errorf("save audio: %w", err)
	}
	fmt.Println("Audio:   ready")
	return nil
}
