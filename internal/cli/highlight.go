package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"my/internal/highlight"
)

func newHighlightCommand(deps Deps) *cobra.Command {
	cfg := deps.Config
	return &cobra.Command{
		Use:   "highlight <syntax>",
		Short: "Apply syntax highlighting to a copied code snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := highlight.NewService(deps.Runner, highlight.Options{
				Bin:      cfg.HighlightBin,
				Style:    cfg.HighlightStyle,
				Font:     cfg.HighlightFont,
				FontSize: cfg.HighlightFontSize,
				Paste:    cfg.ClipboardPaste,
				Copy:     cfg.ClipboardCopy,
			}, deps.Logger)
			if err := svc.Highlight(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), highlight.Message)
			return nil
		},
	}
}
