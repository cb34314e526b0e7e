package integrity

import (
	"context"

	"github.com/gonchi028/academic/internal/core/domain"
	"github.com/gonchi028/academic/internal/core/validation"
)

// =============================================================================
// Task Writes
// =============================================================================

// CreateTask validates in, confirms its subject exists and inserts the task.
func (g *Guard) CreateTask(ctx context.Context, in validation.Input) (*domain.Task, error) {
	if res := validation.ValidateTask(in); !res.Valid {
		return nil, invalid(res)
	}
	task := validation.TaskFromInput(in)

	if err := g.checkSubjectExists(ctx, "CreateTask", task.MateriaID); err != nil {
		return nil, err
	}

	if err := g.store.CreateTask(ctx, &task); err != nil {
		return nil, g.storeFailure(ctx, "CreateTask", err, outcomes{
			foreignKey: notFound(MsgSubjectNotFound),
		})
	}
	return &task, nil
}

// UpdateTask merges the fields present in in over task id. A materiaId that
// moves the task must name an existing subject.
func (g *Guard) UpdateTask(ctx context.Context, id int64, in validation.Input) (*domain.Task, error) {
	existing, err := g.store.GetTask(ctx, id)
	if err != nil {
		return nil, g.storeFailure(ctx, "UpdateTask", err, outcomes{notFound: notFound(MsgTaskNotFound)})
	}

	if res := validation.ValidateTaskPatch(in); !res.Valid {
		return nil, invalid(res)
	}
	patch := validation.TaskPatchFromInput(in)

	if existing.MovesSubject(patch) {
		if err := g.checkSubjectExists(ctx, "UpdateTask", *patch.MateriaID); err != nil {
			return nil, err
		}
	}
	merged := existing.Apply(patch)

	if err := g.store.UpdateTask(ctx, &merged); err != nil {
		return nil, g.storeFailure(ctx, "UpdateTask", err, outcomes{
			foreignKey: notFound(MsgSubjectNotFound),
			notFound:   notFound(MsgTaskNotFound),
		})
	}
	return &merged, nil
}

// DeleteTask removes task id.
func (g *Guard) DeleteTask(ctx context.Context, id int64) error {
	if _, err := g.store.GetTask(ctx, id); err != nil {
		return g.storeFailure(ctx, "DeleteTask", err, outcomes{notFound: notFound(MsgTaskNotFound)})
	}
	if err := g.store.DeleteTask(ctx, id); err != nil {
		return g.storeFailure(ctx, "DeleteTask", err, outcomes{notFound: notFound(MsgTaskNotFound)})
	}
	return nil
}

func (g *Guard) checkSubjectExists(ctx context.Context, op string, subjectID int64) error {
	if _, err := g.store.GetSubject(ctx, subjectID); err != nil {
		return g.storeFailure(ctx, op, err, outcomes{notFound: notFound(MsgSubjectNotFound)})
	}
	return nil
}
