package renderer

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// reportTimeout bounds the reporting invocation; it is supplementary text
// and must never stall a primary operation.
const reportTimeout = 5 * time.Second

// ReportUnavailable is the placeholder used when the renderer's own
// reporting output cannot be obtained.
const ReportUnavailable = "renderer report unavailable"

// Report runs the renderer's reporting subcommand and returns its text
// output. Every failure degrades to the placeholder: the renderer's side
// metadata is enrichment, never a dependency of the primary operation.
func (inv *Invoker) Report(ctx context.Context) string {
	binary, err := inv.resolver.Resolve(ctx)
	if err != nil {
		return ReportUnavailable
	}

	runCtx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()

	stdout, _, err := inv.exec.Run(runCtx, binary, "report")
	if err != nil {
		inv.logger.Debug("renderer report failed", zap.Error(err))
		return ReportUnavailable
	}

	out := strings.TrimSpace(stdout)
	if out == "" {
		return ReportUnavailable
	}
	return out
}
