// Package domain contains all domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/clipflow/clipflow/internal/domain/video"
)

// Module aggregates all domain modules for fx dependency injection
var Module = fx.Module("domain",
	video.Module,
)
