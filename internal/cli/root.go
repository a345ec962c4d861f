// Package cli implements the mediai command-line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dgallion1/mediai/internal/app"
	"github.com/dgallion1/mediai/internal/config"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	output     string
	verbose    bool
}

// NewRootCmd builds the mediai command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "mediai",
		Short: "AI-assisted health triage from the command line",
		Long: `mediai sends patient-reported symptoms to a generative model and turns the
markdown answer into a triage card, sections, speech text and a PDF report.`,
		SilenceUsage: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default $"+config.FileEnv+")")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "human", "Output format (human, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		newInterpretCmd(opts),
		newAnalyzeCmd(opts),
		newExportCmd(opts),
		newHistoryCmd(opts),
		newSpeakCmd(opts),
		newVersionCmd(version),
	)
	return rootCmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mediai version %s\n", version)
		},
	}
}

// logger writes JSON logs to stderr when verbose, and discards them otherwise.
func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	if !o.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), nil))
}

func (o *options) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// services builds the configured application. validate also checks model
// credentials, which only commands that call the model need.
func (o *options) services(cmd *cobra.Command, validate bool) (*app.App, config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, cfg, err
		}
	}
	a, err := app.New(commandContext(cmd), cfg, o.logger(cmd))
	if err != nil {
		return nil, cfg, err
	}
	return a, cfg, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// readMarkdown reads a response from path, or stdin when path is "-".
func readMarkdown(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read markdown: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("markdown is empty")
	}
	return string(data), nil
}
