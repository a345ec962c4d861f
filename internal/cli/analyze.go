package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dgallion1/mediai/internal/analysis"
	"github.com/dgallion1/mediai/internal/attach"
	"github.com/dgallion1/mediai/internal/consult"
	"github.com/dgallion1/mediai/internal/patient"
	"github.com/spf13/cobra"
)

type analyzeFlags struct {
	patient  patient.Data
	sex      string
	language string
	images   []string
	report   string
	audio    string
	save     string
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	f := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze symptoms with the configured model",
		Long: `Send patient details and optional photos, a lab report and a voice note to
the configured model, then show the triage card and record the result.

Examples:
  mediai analyze --age 34 --symptoms "fever and cough for 3 days"
  mediai analyze --age 60 --sex male --symptoms "rash" --image arm.jpg --report labs.pdf
  mediai analyze --age 8 --audio cough.webm --language Hindi --ayurveda`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, f)
		},
	}

	p := &f.patient
	cmd.Flags().StringVar(&p.Age, "age", "", "Patient age (required)")
	cmd.Flags().StringVar(&f.sex, "sex", "", "Male, Female, Other or \"Prefer not to say\"")
	cmd.Flags().StringVar(&f.language, "language", string(patient.LanguageAuto), "Preferred response language")
	cmd.Flags().StringVar(&p.Duration, "duration", "", "How long symptoms have lasted")
	cmd.Flags().StringVar(&p.Conditions, "conditions", "", "Existing conditions")
	cmd.Flags().StringVar(&p.Medications, "medications", "", "Current medications")
	cmd.Flags().StringVar(&p.Symptoms, "symptoms", "", "Symptom description (required unless --audio is given)")
	cmd.Flags().BoolVar(&p.IncludeAyurveda, "ayurveda", false, "Include an Ayurvedic perspective")
	cmd.Flags().StringSliceVar(&f.images, "image", nil, "Symptom photo (repeatable)")
	cmd.Flags().StringVar(&f.report, "report", "", "Lab report or prescription file")
	cmd.Flags().StringVar(&f.audio, "audio", "", "Voice recording of symptoms")
	cmd.Flags().StringVar(&f.save, "save", "", "Also write the raw markdown response to this file")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *options, f *analyzeFlags) error {
	f.patient.Sex = patient.ParseGender(f.sex)
	f.patient.PreferredLanguage = patient.ParseLanguage(f.language)

	media, err := loadMedia(f)
	if err != nil {
		return err
	}

	services, _, err := opts.services(cmd, true)
	if err != nil {
		return err
	}
	defer services.Close()

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = fmt.Sprintf(" Analyzing with %s (%s)...", services.Client.Provider(), services.Client.Model())
	s.Start()
	out, err := services.Consult.Analyze(commandContext(cmd), analysis.Request{Patient: f.patient, Media: media})
	s.Stop()
	if err != nil {
		return errors.New(consult.UserMessage(err))
	}

	if f.save != "" {
		if err := os.WriteFile(f.save, []byte(out.Markdown), 0o644); err != nil {
			return fmt.Errorf("save response: %w", err)
		}
	}

	v := newResultView(out.Markdown, out.Result)
	v.RecordID = out.Record.ID
	return render(cmd.OutOrStdout(), opts.output, v, func(w io.Writer) {
		displayResult(w, v, opts.verbose)
	})
}

func loadMedia(f *analyzeFlags) (attach.Bundle, error) {
	var b attach.Bundle
	for _, path := range f.images {
		p, err := loadPayload(path)
		if err != nil {
			return b, err
		}
		b.Images = append(b.Images, p)
	}
	if f.report != "" {
		p, err := loadPayload(f.report)
		if err != nil {
			return b, err
		}
		b.Document = &p
	}
	if f.audio != "" {
		p, err := loadPayload(f.audio)
		if err != nil {
			return b, err
		}
		b.Audio = &p
	}
	return b, nil
}

func loadPayload(path string) (attach.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return attach.Payload{}, fmt.Errorf("read %s: %w", path, err)
	}
	name := filepath.Base(path)
	return attach.Payload{Name: name, MIMEType: attach.DetectType(name, ""), Data: data}, nil
}
