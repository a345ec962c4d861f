// Package app wires the configured services shared by the server and CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/mediai/internal/analysis"
	"github.com/dgallion1/mediai/internal/config"
	"github.com/dgallion1/mediai/internal/consult"
	"github.com/dgallion1/mediai/internal/history"
	"github.com/dgallion1/mediai/internal/slotstore"
	"github.com/dgallion1/mediai/internal/speech"
)

// App holds the long-lived services built from a Config.
type App struct {
	Client  *analysis.Instrumented
	Stats   *analysis.LLMStats
	Store   slotstore.Store
	History *history.Log
	Consult *consult.Service
	Speech  speech.Synthesizer
}

// New builds every service. A history backend that fails to open falls back
// to memory so analysis keeps working.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	provider, opts, err := cfg.Provider()
	if err != nil {
		return nil, err
	}
	client, err := analysis.New(provider, opts)
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", provider, err)
	}
	stats := analysis.NewLLMStats(cfg.StatsWindow)
	instrumented := analysis.Instrument(client, stats, log)

	store, err := slotstore.Open(ctx, cfg.Slots())
	if err != nil {
		log.Error("open history backend failed, using memory", "backend", cfg.HistoryBackend, "error", err)
		store = slotstore.NewMemory()
	}
	hist := history.Open(ctx, store, cfg.HistorySlot, cfg.HistoryLimit, log)

	var synth speech.Synthesizer = speech.Nop{}
	if cmd := speech.NewCommand(cfg.TTSCommand); cmd.Available() {
		synth = cmd
	} else {
		log.Info("speech synthesizer not found, audio disabled", "command", cfg.TTSCommand)
	}

	svc := consult.NewService(instrumented, consult.Options{
		History:   hist,
		MaxImages: cfg.MaxSymptomImages,
	}, log)

	return &App{
		Client:  instrumented,
		Stats:   stats,
		Store:   store,
		History: hist,
		Consult: svc,
		Speech:  synth,
	}, nil
}

// Close releases the history backend.
func (a *App) Close() error {
	return a.Store.Close()
}
