package plan

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jorge-barreto/srcparam/internal/session"
)

// Runner applies a plan to a session.
type Runner struct {
	Plan    *Plan
	Session *session.Session
	Logger  *zap.Logger
	// OnStep, when set, is called after each step succeeds on the working copy.
	OnStep func(i, total int, s Step, e session.Edit)
}

// Run executes every step against a working copy of the session. Either all steps
// succeed and are committed as a single undo step, or nothing changes.
func (r *Runner) Run(ctx context.Context) ([]session.Edit, error) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("plan", r.Plan.Name))
	total := len(r.Plan.Steps)

	edits, err := r.Session.Batch(func(tx *session.Tx) error {
		for i, step := range r.Plan.Steps {
			if err := ctx.Err(); err != nil {
				return err
			}
			e, err := apply(tx, step)
			if err != nil {
				log.Debug("step failed", zap.Int("step", i+1), zap.Stringer("edit", step), zap.Error(err))
				return fmt.Errorf("step %d (%s): %w", i+1, step, err)
			}
			if r.OnStep != nil {
				r.OnStep(i, total, step, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("plan applied", zap.Int("steps", total), zap.Int("edits", len(edits)))
	return edits, nil
}

func apply(tx *session.Tx, s Step) (session.Edit, error) {
	switch s.Op {
	case OpBind:
		return tx.Bind(s.Anchor(), s.kind, s.Value, s.Confirm)
	case OpUnbind:
		return tx.Unbind(s.Anchor(), s.kind)
	case OpSet:
		return tx.SetValue(s.RecordKey(), s.Value, s.Confirm)
	case OpDelete:
		return tx.DeleteRecord(s.RecordKey())
	default:
		return session.Edit{}, fmt.Errorf("unknown op %q", s.Op)
	}
}
