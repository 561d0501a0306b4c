package session

import (
	"github.com/abhisek/lexio/internal/difficulty"
	"github.com/abhisek/lexio/internal/srs"
)

// DeriveQuality maps a graded result onto the 0-5 recall quality scale
// used by the scheduler. avgLatencyMs is the learner's average response
// time for the category before this result; zero means no history.
//
// Incorrect answers land at 2 when a hint was revealed (the item was at
// least familiar) or 1 for a plain miss. Correct answers degrade from 5
// down to 3 when a hint was used, or to 4 when the response was
// unusually slow.
func DeriveQuality(res difficulty.Result, avgLatencyMs float64) srs.Quality {
	if !res.Correct {
		if res.HintsUsed > 0 {
			return srs.QualityIncorrectFamiliar
		}
		return srs.QualityIncorrect
	}
	if res.HintsUsed > 0 {
		return srs.QualityCorrectHard
	}
	if avgLatencyMs > 0 && float64(res.LatencyMs) > difficulty.LatencySpikeFactor*avgLatencyMs {
		return srs.QualityCorrectHesitant
	}
	return srs.QualityPerfect
}
