package integrity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gonchi028/academic/internal/shell/store"
)

// =============================================================================
// Guard
// =============================================================================

// Guard runs the accept/reject decision for every write.
//
// Pre-checks against the store (existence, uniqueness) are advisory: they
// exist to produce a precise message. The store's own constraints are the
// authority, and a constraint violation raised by a write that raced past a
// pre-check is translated to the same rejection the pre-check would give.
type Guard struct {
	store  store.Store
	logger *slog.Logger
}

// New creates a guard over s.
func New(s store.Store, l *slog.Logger) *Guard {
	if l == nil {
		l = slog.Default()
	}
	return &Guard{store: s, logger: l}
}

// outcomes maps store-level failures of one write to rejections.
// A nil field lets that failure through as an unexpected error.
type outcomes struct {
	unique     *Error
	foreignKey *Error
	notFound   *Error
}

// storeFailure translates err from a store call made by op.
func (g *Guard) storeFailure(ctx context.Context, op string, err error, o outcomes) error {
	if cErr, ok := store.AsConstraint(err); ok {
		var rejection *Error
		switch cErr.Kind {
		case store.ConstraintUnique:
			rejection = o.unique
		case store.ConstraintForeignKey:
			rejection = o.foreignKey
		}
		if rejection != nil {
			g.logger.DebugContext(ctx, "write rejected by store constraint",
				"op", op,
				"constraint", cErr.Error(),
			)
			return rejection
		}
	}
	if o.notFound != nil && store.IsNotFound(err) {
		return o.notFound
	}

	g.logger.ErrorContext(ctx, "store operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}
