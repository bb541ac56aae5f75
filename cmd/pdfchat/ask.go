package main

import (
	"fmt"

	"github.com/sandevgo/pdfchat/internal/service/ingest"
	"github.com/sandevgo/pdfchat/pkg/conv"
	"github.com/spf13/cobra"
)

var (
	askFlags    credentialFlags
	askQuestion string
	askRaw      bool
)

var askCmd = &cobra.Command{
	Use:   "ask <file.pdf|dir>... -q <question>",
	Short: "Answer a single question about PDF documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		sources, err := ingest.LoadFiles(args)
		if err != nil {
			return err
		}

		a := newApp(ctx)
		defer a.manager.Shutdown(ctx)

		handle, err := a.manager.Initialize(ctx, sources, askFlags.credentials())
		if err != nil {
			return err
		}

		answer, err := a.manager.Ask(ctx, handle, askQuestion)
		if err != nil {
			return err
		}

		if !askRaw {
			answer = conv.MarkdownToPlain(answer)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), answer)
		return err
	},
}

func init() {
	askFlags.register(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to answer")
	askCmd.Flags().BoolVar(&askRaw, "raw", false, "print the answer as Markdown")
	_ = askCmd.MarkFlagRequired("question")
	rootCmd.AddCommand(askCmd)
}
