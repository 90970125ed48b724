// cmd/studyscroll/cmd_serve.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/studyscroll/internal/api"
	"github.com/user/studyscroll/internal/feed"
	"github.com/user/studyscroll/internal/jobs"
	"github.com/user/studyscroll/internal/speech"
	"github.com/user/studyscroll/internal/sweeper"
	"github.com/user/studyscroll/internal/telegram"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the StudyScroll server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions, stagingDir, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}

	generator, err := newGenerator(cfg)
	if err != nil {
		return fmt.Errorf("create card generator: %w", err)
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

	runner := jobs.NewRunner(cfg.MaxAudioJobs, cfg.QueueSize)
	runner.Start(ctx)
	defer runner.Stop()

	feeds := feed.NewService(generator, sessions, synth, runner, cfg.BaseURL)

	// Telegram
	var adapter *telegram.Adapter
	if cfg.Telegram.Token != "" {
		adapter, err = telegram.New(cfg.Telegram.Token, feeds)
		if err != nil {
			return fmt.Errorf("create telegram adapter: %w", err)
		}
		if cfg.Telegram.WebhookURL != "" {
			if err := adapter.RegisterWebhook(cfg.Telegram.WebhookURL); err != nil {
				return err
			}
		} else {
			if err := adapter.DeleteWebhook(); err != nil {
				slog.Warn("delete webhook failed", "error", err)
			}
			go adapter.Start(ctx)
			slog.Info("telegram adapter started", "mode", "polling")
		}
	} else {
		slog.Warn("telegram adapter disabled (no token)")
	}

	var updates api.UpdateHandler
	if adapter != nil {
		updates = adapter.HandleUpdate
	}

	// HTTP server
	srv := api.NewServer(sessions, runner, updates, cfg.WebDir, cfg.DedupWindow)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: srv,
	}
	go func() {
		slog.Info("http server started", "addr", cfg.ListenAddr())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
		}
	}()

	// Sweeper
	sweep := sweeper.New(stagingDir, cfg.SweepTTL)
	if err := sweep.Start(cfg.SweepSchedule); err != nil {
		return fmt.Errorf("start sweeper: %w", err)
	}
	defer sweep.Stop()

	slog.Info("studyscroll started",
		"base_url", cfg.BaseURL,
		"gcs", cfg.UseGCS(),
		"llm_model", cfg.LLM.Model,
		"max_audio_jobs", cfg.MaxAudioJobs,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	slog.Info("shutting down", "signal", sig)

	// Stop intake first, drain second, cancel last: ctx feeds the job
	// contexts, so cancelling it before WaitIdle would kill the very
	// jobs the drain is waiting for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "error", err)
	}

	if !runner.WaitIdle(30 * time.Second) {
		slog.Warn("shutdown with audio jobs still running", "active", runner.Active())
	}

	cancel()
	return nil
}
