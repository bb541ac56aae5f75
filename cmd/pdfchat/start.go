package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/sandevgo/pdfchat/internal/config"
	"github.com/sandevgo/pdfchat/internal/transport/telegram"
	"github.com/sandevgo/pdfchat/pkg/log"
	"github.com/sandevgo/pdfchat/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Telegram bot",
	Long:  `Runs the Telegram bot. Send PDFs to the bot, then /init, then ask questions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting pdfchat")

		a := newApp(ctx)
		if !a.cfg.IsTelegramSelected() {
			return errors.New("telegram is disabled, set PDFCHAT_ENABLE_TELEGRAM=true or run 'pdfchat install'")
		}

		bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), a.manager, a.commands)
		if err != nil {
			return err
		}
		services := []srv.Service{a.manager, bot}

		srv.StartServices(ctx, cancel, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("pdfchat has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
