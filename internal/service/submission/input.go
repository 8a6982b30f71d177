package submission

import (
	"strings"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

// SubmitInput holds the parameters for one answer submission.
type SubmitInput struct {
	ExerciseID     uuid.UUID
	Response       string
	IdempotencyKey *string
}

// Validate checks all fields and collects all errors.
func (i *SubmitInput) Validate() error {
	var errs []domain.FieldError

	if i.ExerciseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "exercise_id", Message: "required"})
	}
	if strings.TrimSpace(i.Response) == "" {
		errs = append(errs, domain.FieldError{Field: "response", Message: "required"})
	}
	if len(i.Response) > 2000 {
		errs = append(errs, domain.FieldError{Field: "response", Message: "max 2000 characters"})
	}
	if i.IdempotencyKey != nil {
		if *i.IdempotencyKey == "" {
			errs = append(errs, domain.FieldError{Field: "idempotency_key", Message: "must not be empty when provided"})
		}
		if len(*i.IdempotencyKey) > 128 {
			errs = append(errs, domain.FieldError{Field: "idempotency_key", Message: "max 128 characters"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
