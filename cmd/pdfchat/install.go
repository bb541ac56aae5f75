package main

import (
	"github.com/joho/godotenv"
	"github.com/sandevgo/pdfchat/internal/config"
	"github.com/sandevgo/pdfchat/internal/service/installer"
	"github.com/sandevgo/pdfchat/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Configure providers and write the .env file",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting setup")

		// run wizard (includes save step)
		if _, err := installer.RunWizard(ctx); err != nil {
			return err
		}

		envPath := config.GetEnvPath()
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().Msgf("configuration written to %s", envPath)
		logger.Info().Msg("Setup complete! Try 'pdfchat chat <file.pdf>'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
