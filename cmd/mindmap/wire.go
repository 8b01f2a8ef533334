package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jask/mindmap/internal/config"
	"github.com/jask/mindmap/internal/graph"
	"github.com/jask/mindmap/internal/layout"
	"github.com/jask/mindmap/internal/llm"
	"github.com/jask/mindmap/internal/secrets"
	"github.com/jask/mindmap/internal/service"
)

// deps are the long-lived collaborators shared by all commands.
type deps struct {
	cfg config.Config
	log *zap.Logger
	rel *service.Relations
}

func setup(ctx context.Context) (*deps, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	// A missing key is not fatal: every lookup falls back instead.
	var client llm.Client
	if c, err := llm.New(ctx, cfg.LLM.Provider, apiKey(cfg, log)); err != nil {
		log.Warn("llm client unavailable", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
	} else {
		client = c
	}

	rel := service.NewRelations(client, cfg.LLM.Model, cfg.LLM.Temperature,
		service.WithRateLimit(cfg.LLM.RequestsPerSecond),
		service.WithTimeout(cfg.LLM.Timeout),
		service.WithLogger(log),
	)
	log.Info("starting",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
		zap.Bool("llm", client != nil),
	)
	return &deps{cfg: cfg, log: log, rel: rel}, nil
}

// apiKey prefers the environment and config file, then the keyring.
func apiKey(cfg config.Config, log *zap.Logger) string {
	if k := cfg.APIKey(); k != "" {
		return k
	}
	ring, err := secrets.Default()
	if err != nil {
		return ""
	}
	k, err := ring.Get(cfg.LLM.Provider)
	if err != nil && !errors.Is(err, secrets.ErrNotFound) {
		log.Warn("keyring lookup failed", zap.Error(err))
	}
	return k
}

func forces(cfg config.LayoutConfig) layout.Forces {
	f := layout.DefaultForces()
	f.LinkDistance = cfg.LinkDistance
	f.Charge = cfg.Charge
	f.CollideRadius = cfg.CollideRadius
	return f
}

func newExplorer(d *deps, loc graph.Locator) *graph.Explorer {
	opts := []graph.Option{graph.WithConcurrentExpansions(d.cfg.Graph.ConcurrentExpansions)}
	if loc != nil {
		opts = append(opts, graph.WithLocator(loc))
	}
	return graph.NewExplorer(d.rel, opts...)
}

// newLogger writes JSON logs to path. An empty path or "-" discards them; the
// terminal belongs to the UI.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" || path == "-" {
		return zap.NewNop(), nil
	}
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		lvl, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = lvl
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.Sampling = nil
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	return zc.Build()
}
