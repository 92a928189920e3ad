package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rulekb/rulekb/internal/config"
	"github.com/rulekb/rulekb/internal/home"
	"github.com/rulekb/rulekb/internal/kb"
	"github.com/rulekb/rulekb/internal/llmcall"
	"github.com/rulekb/rulekb/internal/pipeline"
	"github.com/rulekb/rulekb/internal/prompts"
	"github.com/rulekb/rulekb/internal/prompts/measurements"
	qprompts "github.com/rulekb/rulekb/internal/prompts/query"
	"github.com/rulekb/rulekb/internal/prompts/rules"
	"github.com/rulekb/rulekb/internal/prompts/terms"
	"github.com/rulekb/rulekb/internal/providers"
)

// newLogger builds the default text logger for CLI runs.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// loadHome resolves and prepares the home directory.
func loadHome() (*home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}
	return h, nil
}

// newRegistry builds the prompt registry with all embedded defaults.
func newRegistry(logger *slog.Logger) *prompts.Registry {
	registry := prompts.NewRegistry(logger)
	rules.RegisterPrompts(registry)
	terms.RegisterPrompts(registry)
	measurements.RegisterPrompts(registry)
	qprompts.RegisterPrompts(registry)
	return registry
}

// buildDeps wires the full dependency set for LLM-backed commands.
// providerFlag overrides the configured default provider when non-empty.
func buildDeps(providerFlag string) (*pipeline.Deps, *config.Config, error) {
	logger := newLogger()

	h, err := loadHome()
	if err != nil {
		return nil, nil, err
	}

	manager, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	cfg := manager.Get()

	providerName := providerFlag
	if providerName == "" {
		providerName = cfg.Defaults.LLMProvider
	}
	providerCfg, ok := cfg.ResolvedLLMProvider(providerName)
	if !ok {
		return nil, nil, fmt.Errorf("unknown LLM provider: %s", providerName)
	}

	client, err := providers.NewClient(providerName, providerCfg)
	if err != nil {
		return nil, nil, err
	}

	return &pipeline.Deps{
		Home:     h,
		Client:   client,
		Prompts:  newRegistry(logger),
		Store:    kb.NewStore(logger),
		Recorder: llmcall.NewRecorder(h.CallLogPath(), logger),
		Logger:   logger,
		Model:    providerCfg.Model,
	}, cfg, nil
}

// pageRange resolves the effective page window from flags and config
// defaults. Flag values of 0 fall back to the configured defaults.
func pageRange(cfg *config.Config, start, end int) pipeline.Range {
	if start == 0 {
		start = cfg.Defaults.StartPage
	}
	if end == 0 {
		end = cfg.Defaults.EndPage
	}
	return pipeline.Range{Start: start, End: end}
}
