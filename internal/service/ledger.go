package service

import (
	"math"

	"github.com/google/uuid"

	"github.com/Skotchmaster/fieldops/internal/repo"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// spendAdjustments returns the card increments that move an expense from
// (oldCard, oldAmount) to (newCard, newAmount). Either card may be nil.
func spendAdjustments(oldCard *uuid.UUID, oldAmount float64, newCard *uuid.UUID, newAmount float64) []repo.SpendDelta {
	if oldCard != nil && newCard != nil && *oldCard == *newCard {
		d := round2(newAmount - oldAmount)
		if d == 0 {
			return nil
		}
		return []repo.SpendDelta{{CardID: *oldCard, Delta: d}}
	}

	var out []repo.SpendDelta
	if oldCard != nil && oldAmount != 0 {
		out = append(out, repo.SpendDelta{CardID: *oldCard, Delta: -round2(oldAmount)})
	}
	if newCard != nil && newAmount != 0 {
		out = append(out, repo.SpendDelta{CardID: *newCard, Delta: round2(newAmount)})
	}
	return out
}
