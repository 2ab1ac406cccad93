package exporter

import (
	"sheet-verify/internal/config"
	"sheet-verify/internal/pipeline"
)

// Exporter is the unified interface for all report formats
type Exporter interface {
	Export(result *pipeline.Result, cfg *config.Config) error
}
