package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/pdfchat/internal/service/ingest"
	"github.com/sandevgo/pdfchat/internal/transport/cli"
	"github.com/sandevgo/pdfchat/pkg/log"
	"github.com/spf13/cobra"
)

var chatFlags credentialFlags

var chatCmd = &cobra.Command{
	Use:   "chat <file.pdf|dir>...",
	Short: "Chat with PDF documents in the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		sources, err := ingest.LoadFiles(args)
		if err != nil {
			return err
		}

		a := newApp(ctx)
		defer a.manager.Shutdown(ctx)

		log.FromCtx(ctx).Info().Strs("documents", ingest.Names(sources)).Msg("indexing documents")
		handle, err := a.manager.Initialize(ctx, sources, chatFlags.credentials())
		if err != nil {
			return err
		}

		rl, err := cli.NewReadLine(a.cfg, a.manager, a.commands, handle)
		if err != nil {
			return err
		}
		defer rl.Shutdown(ctx)

		return rl.Start(ctx)
	},
}

func init() {
	chatFlags.register(chatCmd)
	rootCmd.AddCommand(chatCmd)
}
