//go:build !nogpu

package gpu

import (
	"log/slog"

	"github.com/gogpu/vvg"
)

// slogger returns the logger configured with vvg.SetLogger.
// All logging in internal/gpu goes through this function.
func slogger() *slog.Logger { return vvg.Logger() }
