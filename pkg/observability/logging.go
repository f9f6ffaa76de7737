package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that write an audit trail of every
// transition to logger at Debug level and run outcomes at Info/Warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "transition",
				"machine", e.Machine,
				"step", e.Step,
				"position", e.Position,
				"from", e.From.String(),
				"to", e.To.String(),
			)
		},
		OnRunHalt: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_halt",
				"machine", e.Machine,
				"state", e.State,
				"steps", e.Steps,
			)
		},
		OnRunFail: func(ctx context.Context, e *domain.RunEvent) {
			logger.WarnContext(ctx, "run_fail",
				"machine", e.Machine,
				"state", e.State,
				"steps", e.Steps,
				"error", e.Err,
			)
		},
	}
}
