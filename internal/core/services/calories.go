package services

import (
	"math"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

const (
	defaultWeightKg = 70
	defaultAge      = 30
	defaultMET      = 4.0
)

var intensityMET = map[string]float64{
	domain.IntensityLow:      3.0,
	domain.IntensityMedium:   5.0,
	domain.IntensityModerate: 5.0,
	domain.IntensityHigh:     8.0,
}

// EstimateCalories sums MET-based kcal over the activities:
// kcal/min = MET * 3.5 * weight / 200, scaled by an age factor in [0.9, 1.1].
// A nil user or missing profile fields fall back to 70 kg and 30 years.
func EstimateCalories(activities []*domain.ActivityRecord, user *domain.User) float64 {
	if len(activities) == 0 {
		return 0
	}

	weight := float64(defaultWeightKg)
	age := float64(defaultAge)
	if user != nil {
		if user.WeightKg != nil && *user.WeightKg > 0 {
			weight = *user.WeightKg
		}
		if user.Age != nil {
			age = float64(*user.Age)
		}
	}

	ageFactor := math.Max(0.9, math.Min(1.1, 1-(age-30)*0.003))

	var total float64
	for _, a := range activities {
		if a == nil {
			continue
		}
		met, ok := intensityMET[a.Intensity]
		if !ok {
			met = defaultMET
		}
		total += float64(a.Minutes) * met * 3.5 * weight / 200
	}

	return math.Round(total * ageFactor)
}
