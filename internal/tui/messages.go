package tui

import (
	"time"

	"github.com/jask/mindmap/internal/config"
	"github.com/jask/mindmap/internal/graph"
)

type frameMsg time.Time

// relatedMsg carries the words fetched for an outstanding request.
type relatedMsg struct {
	req   graph.Request
	words []string
}

// ConfigMsg delivers a reloaded configuration to a running App.
type ConfigMsg struct {
	Config config.Config
	Err    error
}
