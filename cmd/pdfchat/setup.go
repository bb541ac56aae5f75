package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sandevgo/pdfchat/internal/config"
	"github.com/sandevgo/pdfchat/internal/service/command"
	"github.com/sandevgo/pdfchat/internal/service/session"
	"github.com/sandevgo/pdfchat/pkg/log"
	"github.com/spf13/cobra"
)

type app struct {
	cfg      *config.AppConfig
	manager  *session.Manager
	commands *command.Router
}

// newApp loads the configuration and wires the session manager.
func newApp(ctx context.Context) *app {
	if err := initEnv(ctx, config.GetEnvPath()); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to init env")
	}

	appCfg := config.NewAppConfig(ctx)
	ragCfg := config.NewRAGConfig(ctx)

	manager := session.NewManager(session.NewFactory(appCfg, ragCfg), appCfg.SessionTTL)
	return &app{
		cfg:      appCfg,
		manager:  manager,
		commands: command.New(command.NewCommands(appCfg, manager)),
	}
}

func initEnv(ctx context.Context, envFile string) error {
	logger := log.FromCtx(ctx)

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

// credentialFlags lets one run override the configured chat model.
type credentialFlags struct {
	provider string
	model    string
	apiKey   string
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "provider", "", "chat provider (openai, anthropic, openrouter, ollama, custom)")
	cmd.Flags().StringVar(&f.model, "model", "", "chat model")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key for the chat provider")
}

func (f *credentialFlags) credentials() session.Credentials {
	return session.Credentials{
		Provider: f.provider,
		Model:    f.model,
		APIKey:   f.apiKey,
	}
}
