package integrity

import (
	"context"

	"github.com/gonchi028/academic/internal/core/domain"
	"github.com/gonchi028/academic/internal/core/validation"
	"github.com/gonchi028/academic/internal/shell/store"
)

// =============================================================================
// Student Writes
// =============================================================================

// CreateStudent validates in and inserts the student it describes.
func (g *Guard) CreateStudent(ctx context.Context, in validation.Input) (*domain.Student, error) {
	if res := validation.ValidateStudent(in); !res.Valid {
		return nil, invalid(res)
	}
	student := validation.StudentFromInput(in)

	if err := g.checkCorreoFree(ctx, "CreateStudent", student.Correo, 0); err != nil {
		return nil, err
	}

	if err := g.store.CreateStudent(ctx, &student); err != nil {
		return nil, g.storeFailure(ctx, "CreateStudent", err, outcomes{
			unique: conflict(MsgDuplicateCorreo),
		})
	}
	return &student, nil
}

// UpdateStudent merges the fields present in in over student id.
func (g *Guard) UpdateStudent(ctx context.Context, id int64, in validation.Input) (*domain.Student, error) {
	existing, err := g.store.GetStudent(ctx, id)
	if err != nil {
		return nil, g.storeFailure(ctx, "UpdateStudent", err, outcomes{notFound: notFound(MsgStudentNotFound)})
	}

	if res := validation.ValidateStudentPatch(in); !res.Valid {
		return nil, invalid(res)
	}
	patch := validation.StudentPatchFromInput(in)
	merged := existing.Apply(patch)

	if merged.Correo != existing.Correo {
		if err := g.checkCorreoFree(ctx, "UpdateStudent", merged.Correo, id); err != nil {
			return nil, err
		}
	}

	if err := g.store.UpdateStudent(ctx, &merged); err != nil {
		return nil, g.storeFailure(ctx, "UpdateStudent", err, outcomes{
			unique:   conflict(MsgDuplicateCorreo),
			notFound: notFound(MsgStudentNotFound),
		})
	}
	return &merged, nil
}

// DeleteStudent removes student id.
func (g *Guard) DeleteStudent(ctx context.Context, id int64) error {
	if _, err := g.store.GetStudent(ctx, id); err != nil {
		return g.storeFailure(ctx, "DeleteStudent", err, outcomes{notFound: notFound(MsgStudentNotFound)})
	}
	if err := g.store.DeleteStudent(ctx, id); err != nil {
		return g.storeFailure(ctx, "DeleteStudent", err, outcomes{notFound: notFound(MsgStudentNotFound)})
	}
	return nil
}

// checkCorreoFree rejects correo if a student other than self already holds it.
func (g *Guard) checkCorreoFree(ctx context.Context, op, correo string, self int64) error {
	holder, err := g.store.GetStudentByCorreo(ctx, correo)
	if store.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return g.storeFailure(ctx, op, err, outcomes{})
	}
	if holder.ID == self {
		return nil
	}
	return conflict(MsgDuplicateCorreo)
}
