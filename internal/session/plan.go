package session

import "github.com/example/frasebot/pkg/models"

// Plan represents a study plan preset: how many phrases must be
// answered correctly and which subset of the catalog is drilled.
type Plan string

const (
	// PlanDaily drills a small curated set of everyday phrases
	PlanDaily Plan = "daily"
	// PlanWeekly drills the first ten catalog phrases
	PlanWeekly Plan = "weekly"
	// PlanMonthly drills the first twenty catalog phrases
	PlanMonthly Plan = "monthly"
)

// dailyTargetTexts is the curated daily subset, matched against the
// catalog by exact target text.
var dailyTargetTexts = []string{
	"Bom dia, como você está?",
	"Obrigado pela sua ajuda.",
	"Até amanhã!",
}

// Target returns the number of correct answers required to finish a
// session under this plan.
func (p Plan) Target() int {
	switch p {
	case PlanWeekly:
		return 10
	case PlanMonthly:
		return 20
	default:
		return 3
	}
}

// Valid reports whether p is one of the known plans
func (p Plan) Valid() bool {
	return p == PlanDaily || p == PlanWeekly || p == PlanMonthly
}

// Select picks the active set for this plan from the catalog. The
// catalog order is the fixed order supplied at engine construction.
func (p Plan) Select(catalog []models.Phrase) []models.Phrase {
	switch p {
	case PlanDaily:
		return selectDaily(catalog)
	case PlanWeekly:
		return prefix(catalog, 10)
	case PlanMonthly:
		return prefix(catalog, 20)
	default:
		return nil
	}
}

// selectDaily matches the curated texts against the catalog. If the
// catalog changed and fewer than all three are present, it falls back
// to the first three catalog entries in catalog order.
func selectDaily(catalog []models.Phrase) []models.Phrase {
	var picked []models.Phrase
	for _, want := range dailyTargetTexts {
		for _, ph := range catalog {
			if ph.TargetText == want {
				picked = append(picked, ph)
				break
			}
		}
	}

	if len(picked) < len(dailyTargetTexts) {
		return prefix(catalog, len(dailyTargetTexts))
	}
	return picked
}

func prefix(catalog []models.Phrase, n int) []models.Phrase {
	if len(catalog) < n {
		n = len(catalog)
	}
	out := make([]models.Phrase, n)
	copy(out, catalog[:n])
	return out
}
