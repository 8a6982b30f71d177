package srs

import (
	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

// ReviewCardInput holds the parameters for reviewing a card.
type ReviewCardInput struct {
	CardID  uuid.UUID
	Quality int
}

// Validate checks all fields and collects all errors.
func (i *ReviewCardInput) Validate() error {
	var errs []domain.FieldError

	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}
	if i.Quality < MinQuality || i.Quality > MaxQuality {
		errs = append(errs, domain.FieldError{Field: "quality", Message: "must be between 0 and 5"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// DueCardsInput holds the parameters for fetching the review queue.
type DueCardsInput struct {
	Limit int
}
