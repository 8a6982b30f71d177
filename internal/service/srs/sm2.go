package srs

import (
	"time"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

// Quality bounds for a review grade. 0 is a total blackout, 5 a perfect
// instant recall; 3 is the pass threshold.
const (
	MinQuality     = 0
	MaxQuality     = 5
	PassingQuality = 3
)

// Schedule applies one SM-2 review to a card and returns the fields to
// persist. The input card is not mutated.
//
// Passing reviews walk the interval ladder 1 day, 6 days, then
// round(interval * ease). A failing review resets repetitions and drops the
// interval back to 1 day while keeping the review history. The ease factor
// moves on every review, up for easy recalls and down for hard ones, and
// never drops below the configured floor.
func Schedule(card domain.SRSCard, quality int, now time.Time, cfg domain.SRSConfig) domain.SRSUpdateParams {
	interval := card.IntervalDays
	repetitions := card.Repetitions

	if quality >= PassingQuality {
		switch repetitions {
		case 0:
			interval = 1
		case 1:
			interval = 6
		default:
			interval = int(float64(interval) * card.EaseFactor)
		}
		repetitions++
	} else {
		repetitions = 0
		interval = 1
	}

	if interval < 1 {
		interval = 1
	}
	if cfg.MaxIntervalDays > 0 && interval > cfg.MaxIntervalDays {
		interval = cfg.MaxIntervalDays
	}

	miss := float64(MaxQuality - quality)
	ease := card.EaseFactor + (0.1 - miss*(0.08+miss*0.02))
	if ease < cfg.MinEaseFactor {
		ease = cfg.MinEaseFactor
	}

	return domain.SRSUpdateParams{
		EaseFactor:     ease,
		IntervalDays:   interval,
		Repetitions:    repetitions,
		NextReviewDate: now.Add(time.Duration(interval) * 24 * time.Hour),
		LastReviewedAt: now,
		WasCorrect:     quality >= PassingQuality,
	}
}
