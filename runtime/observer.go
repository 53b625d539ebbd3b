package runtime

import (
	"go.uber.org/zap"

	"github.com/wippyai/jbi-runtime/ownership"
)

// logObserver logs ownership events at debug level.
type logObserver struct {
	logger *zap.Logger
}

func (o *logObserver) OnOwnershipEvent(e ownership.Event) {
	o.logger.Debug("ownership",
		zap.Stringer("event", e.Type),
		zap.Uint64("id", e.ID),
		zap.String("type", e.TypeName),
		zap.Int64("owners", e.Owners))
}
