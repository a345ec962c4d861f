package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/mediai/internal/interpret"
	"github.com/dgallion1/mediai/internal/patient"
	"github.com/dgallion1/mediai/internal/speech"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSpeakCmd(opts *options) *cobra.Command {
	var (
		language string
		outPath  string
		textOnly bool
	)
	cmd := &cobra.Command{
		Use:   "speak FILE",
		Short: "Read a response's summary aloud",
		Long: `Build the speakable summary of a markdown response (triage, summary and next
steps) and synthesize it to a WAV file with the configured TTS command.

Examples:
  mediai speak response.md --text
  mediai speak response.md --language Hindi --out summary.wav`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markdown, err := readMarkdown(cmd, args[0])
			if err != nil {
				return err
			}
			text := interpret.Interpret(markdown).Speech
			tag := speech.LanguageTag(patient.ParseLanguage(language))
			if textOnly {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			synth := speech.NewCommand(cfg.TTSCommand)
			if !synth.Available() {
				return fmt.Errorf("%w: install %s or use --text", speech.ErrUnavailable, cfg.TTSCommand)
			}
			if outPath == "" {
				outPath = "mediai-summary.wav"
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			if err := synth.Synthesize(commandContext(cmd), text, tag, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", outPath, err)
			}
			printSuccess(cmd.OutOrStdout(), "Audio written to "+outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&language, "language", string(patient.LanguageAuto), "Voice language")
	cmd.Flags().StringVar(&outPath, "out", "", "Output WAV file (default mediai-summary.wav)")
	cmd.Flags().BoolVar(&textOnly, "text", false, "Print the speech text instead of synthesizing it")
	return cmd
}

func printSuccess(w io.Writer, msg string) {
	color.New(color.FgGreen).Fprintf(w, "✓ %s\n", msg)
}
