package domain

import "math"

const (
	DefaultWaterGoalMl    = 2000
	DefaultSleepGoalHours = 8
	DefaultCaloriesGoal   = 600

	minGoal = 0.1
)

type Goals struct {
	WaterMl    float64 `json:"waterMl" mapstructure:"water_ml"`
	SleepHours float64 `json:"sleepHours" mapstructure:"sleep_hours"`
	Calories   float64 `json:"calories" mapstructure:"calories"`
}

func DefaultGoals() Goals {
	return Goals{
		WaterMl:    DefaultWaterGoalMl,
		SleepHours: DefaultSleepGoalHours,
		Calories:   DefaultCaloriesGoal,
	}
}

type Progress struct {
	Current   float64 `json:"current"`
	Goal      float64 `json:"goal"`
	Percent   float64 `json:"percent"`
	Remaining float64 `json:"remaining"`
	Reached   bool    `json:"reached"`
}

// NewProgress reports current against goal. Percent is clamped to [0, 100]
// and rounded to one decimal.
func NewProgress(current, goal float64) Progress {
	if math.IsNaN(current) || math.IsInf(current, 0) {
		current = 0
	}
	if math.IsNaN(goal) || goal < minGoal {
		goal = minGoal
	}

	percent := math.Min(100, math.Max(0, current/goal*100))

	return Progress{
		Current:   current,
		Goal:      goal,
		Percent:   math.Round(percent*10) / 10,
		Remaining: math.Max(0, goal-current),
		Reached:   current >= goal,
	}
}
