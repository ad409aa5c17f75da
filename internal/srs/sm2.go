// Package srs provides the SM-2 spaced-repetition scheduler and the adaptive
// question selector built on top of it.
package srs

import "math"

const (
	// DefaultEase is the easiness factor of a question never reviewed before.
	DefaultEase = 2.5
	// MinEase is the floor below which the easiness factor never drops.
	MinEase = 1.3
	// DefaultIntervalDays is the review interval of a question never reviewed before.
	DefaultIntervalDays = 1
)

// Update applies one review outcome to SM-2 scheduling state and returns the
// new state. quality is clamped into [0, 5]; 0-2 is a lapse, 3-5 a success.
//
// A lapse is a hard reset: repetitions back to zero, interval back to one
// day, ease down by 0.2 regardless of prior progress. A success grows the
// ease by the classic SM-2 formula (largest raise at quality 5, a small drop
// at quality 3) and advances the interval: 1 day for the first successful
// repetition, 6 days for the second, interval * ease after that.
func Update(quality int, ease float64, intervalDays, repetitions int) (newEase float64, newIntervalDays, newRepetitions int) {
	if quality < 0 {
		quality = 0
	} else if quality > 5 {
		quality = 5
	}

	if quality < 3 {
		return math.Max(MinEase, ease-0.2), 1, 0
	}

	q := float64(quality)
	newEase = math.Max(MinEase, ease+(0.1-(5-q)*(0.08+(5-q)*0.02)))

	switch repetitions {
	case 0:
		newIntervalDays = 1
	case 1:
		newIntervalDays = 6
	default:
		newIntervalDays = int(math.Round(float64(intervalDays) * newEase))
	}

	return newEase, newIntervalDays, repetitions + 1
}
