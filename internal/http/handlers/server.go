package handlers

import (
	"log/slog"

	"github.com/rogerio-castellano/sabiboss/internal/workspace"
)

var (
	registry *workspace.Registry
	logger   = slog.Default()
)

func SetRegistry(r *workspace.Registry) {
	registry = r
}

func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}
