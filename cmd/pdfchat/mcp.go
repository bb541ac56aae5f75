package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sandevgo/pdfchat/internal/transport/mcp"
	"github.com/sandevgo/pdfchat/pkg/log"
	"github.com/sandevgo/pdfchat/pkg/srv"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve document sessions as MCP tools over stdio",
	Long:  `Runs a Model Context Protocol server on stdin/stdout. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		a := newApp(ctx)
		services := []srv.Service{
			a.manager,
			mcp.NewServer(a.manager, version, os.Stdin, os.Stdout),
		}

		srv.StartServices(ctx, cancel, services)
		srv.ShutdownServices(ctx, services)
		log.FromCtx(ctx).Info().Msg("mcp server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
