package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dgallion1/mediai/internal/export"
	"github.com/dgallion1/mediai/internal/history"
	"github.com/dgallion1/mediai/internal/patient"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		recordID string
		outPath  string
		format   string
		p        patient.Data
		sex      string
	)
	cmd := &cobra.Command{
		Use:   "export [FILE]",
		Short: "Export a triage report as PDF or text",
		Long: `Build the printable triage report from a saved markdown response, or from a
record in the history log with --record.

Examples:
  mediai export response.md --age 34 --sex female
  mediai export --record 3f2a9c1e -f text`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rec history.Record
			switch {
			case recordID != "":
				services, _, err := opts.services(cmd, false)
				if err != nil {
					return err
				}
				defer services.Close()
				found, ok := findRecord(services.History, recordID)
				if !ok {
					return fmt.Errorf("record %s not found", recordID)
				}
				rec = found
			case len(args) == 1:
				markdown, err := readMarkdown(cmd, args[0])
				if err != nil {
					return err
				}
				p.Sex = patient.ParseGender(sex)
				rec = history.Builder{}.Build(markdown, p)
			default:
				return fmt.Errorf("either pass a markdown FILE or use --record")
			}

			doc := export.Build(rec)
			switch strings.ToLower(format) {
			case "pdf":
				if outPath == "" {
					outPath = export.FileName(rec.ID)
				}
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				if err := export.RenderPDF(f, doc); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("close %s: %w", outPath, err)
				}
				printSuccess(cmd.OutOrStdout(), "Report written to "+outPath)
				return nil
			case "text":
				if outPath == "" {
					return export.RenderText(cmd.OutOrStdout(), doc)
				}
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer f.Close()
				return export.RenderText(f, doc)
			default:
				return fmt.Errorf("unknown report format %q (want pdf or text)", format)
			}
		},
	}
	cmd.Flags().StringVar(&recordID, "record", "", "History record id or id prefix")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default MediAI-Report-<id>.pdf)")
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "Report format (pdf, text)")
	cmd.Flags().StringVar(&p.Age, "age", "", "Patient age")
	cmd.Flags().StringVar(&sex, "sex", "", "Patient sex")
	cmd.Flags().StringVar(&p.Duration, "duration", "", "Symptom duration")
	cmd.Flags().StringVar(&p.Conditions, "conditions", "", "Existing conditions")
	cmd.Flags().StringVar(&p.Medications, "medications", "", "Current medications")
	return cmd
}

// findRecord matches an exact id first, then a unique id prefix.
func findRecord(log *history.Log, id string) (history.Record, bool) {
	if rec, ok := log.Get(id); ok {
		return rec, true
	}
	var match history.Record
	n := 0
	for _, rec := range log.List() {
		if strings.HasPrefix(rec.ID, id) {
			match = rec
			n++
		}
	}
	return match, n == 1
}
