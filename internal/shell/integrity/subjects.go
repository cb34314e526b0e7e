package integrity

import (
	"context"

	"github.com/gonchi028/academic/internal/core/domain"
	"github.com/gonchi028/academic/internal/core/validation"
	"github.com/gonchi028/academic/internal/shell/store"
)

// =============================================================================
// Subject Writes
// =============================================================================

// CreateSubject validates in and inserts the subject it describes.
func (g *Guard) CreateSubject(ctx context.Context, in validation.Input) (*domain.Subject, error) {
	if res := validation.ValidateSubject(in); !res.Valid {
		return nil, invalid(res)
	}
	subject := validation.SubjectFromInput(in)

	if err := g.checkSiglaFree(ctx, "CreateSubject", subject.Sigla, 0); err != nil {
		return nil, err
	}

	if err := g.store.CreateSubject(ctx, &subject); err != nil {
		return nil, g.storeFailure(ctx, "CreateSubject", err, outcomes{
			unique: conflict(MsgDuplicateSigla),
		})
	}
	return &subject, nil
}

// UpdateSubject merges the fields present in in over subject id.
func (g *Guard) UpdateSubject(ctx context.Context, id int64, in validation.Input) (*domain.Subject, error) {
	existing, err := g.store.GetSubject(ctx, id)
	if err != nil {
		return nil, g.storeFailure(ctx, "UpdateSubject", err, outcomes{notFound: notFound(MsgSubjectNotFound)})
	}

	if res := validation.ValidateSubjectPatch(in); !res.Valid {
		return nil, invalid(res)
	}
	merged := existing.Apply(validation.SubjectPatchFromInput(in))

	if merged.Sigla != existing.Sigla {
		if err := g.checkSiglaFree(ctx, "UpdateSubject", merged.Sigla, id); err != nil {
			return nil, err
		}
	}

	if err := g.store.UpdateSubject(ctx, &merged); err != nil {
		return nil, g.storeFailure(ctx, "UpdateSubject", err, outcomes{
			unique:   conflict(MsgDuplicateSigla),
			notFound: notFound(MsgSubjectNotFound),
		})
	}
	return &merged, nil
}

// DeleteSubject removes subject id unless tasks still reference it.
func (g *Guard) DeleteSubject(ctx context.Context, id int64) error {
	if _, err := g.store.GetSubject(ctx, id); err != nil {
		return g.storeFailure(ctx, "DeleteSubject", err, outcomes{notFound: notFound(MsgSubjectNotFound)})
	}

	dependents, err := g.store.ListTasksBySubject(ctx, id, store.ListOptions{Limit: 1})
	if err != nil {
		return g.storeFailure(ctx, "DeleteSubject", err, outcomes{})
	}
	if allowed, reason := validation.CanDeleteSubject(len(dependents)); !allowed {
		return conflict(reason)
	}

	if err := g.store.DeleteSubject(ctx, id); err != nil {
		// A task created after the dependency check trips the foreign key.
		return g.storeFailure(ctx, "DeleteSubject", err, outcomes{
			foreignKey: conflict(validation.ReasonSubjectHasTasks),
			notFound:   notFound(MsgSubjectNotFound),
		})
	}
	return nil
}

// TasksForSubject lists the tasks of subject id.
func (g *Guard) TasksForSubject(ctx context.Context, id int64) ([]domain.Task, error) {
	if _, err := g.store.GetSubject(ctx, id); err != nil {
		return nil, g.storeFailure(ctx, "TasksForSubject", err, outcomes{notFound: notFound(MsgSubjectNotFound)})
	}

	tasks, err := g.store.ListTasksBySubject(ctx, id, store.ListOptions{})
	if err != nil {
		return nil, g.storeFailure(ctx, "TasksForSubject", err, outcomes{})
	}
	return tasks, nil
}

// checkSiglaFree rejects sigla if a subject other than self already holds it.
func (g *Guard) checkSiglaFree(ctx context.Context, op, sigla string, self int64) error {
	holder, err := g.store.GetSubjectBySigla(ctx, sigla)
	if store.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return g.storeFailure(ctx, op, err, outcomes{})
	}
	if holder.ID == self {
		return nil
	}
	return conflict(MsgDuplicateSigla)
}
