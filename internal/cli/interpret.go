package cli

import (
	"io"

	"github.com/dgallion1/mediai/internal/interpret"
	"github.com/spf13/cobra"
)

func newInterpretCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "interpret FILE",
		Short: "Interpret a saved model response",
		Long: `Split a markdown response into sections, classify its triage level and
build the quick-view card without calling a model. Use - to read stdin.

Examples:
  mediai interpret response.md
  cat response.md | mediai interpret - -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markdown, err := readMarkdown(cmd, args[0])
			if err != nil {
				return err
			}
			v := newResultView(markdown, interpret.Interpret(markdown))
			return render(cmd.OutOrStdout(), opts.output, v, func(w io.Writer) {
				displayResult(w, v, opts.verbose)
			})
		},
	}
}
