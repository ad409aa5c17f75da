package srs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdate(t *testing.T) {
	tests := []struct {
		name         string
		quality      int
		ease         float64
		intervalDays int
		repetitions  int

		wantEase         float64
		wantIntervalDays int
		wantRepetitions  int
	}{
		{
			name:    "first success keeps a one day interval",
			quality: 4, ease: 2.5, intervalDays: 1, repetitions: 0,
			wantEase: 2.5, wantIntervalDays: 1, wantRepetitions: 1,
		},
		{
			name:    "second success jumps to six days",
			quality: 4, ease: 2.5, intervalDays: 1, repetitions: 1,
			wantEase: 2.5, wantIntervalDays: 6, wantRepetitions: 2,
		},
		{
			name:    "third success multiplies the interval by ease",
			quality: 5, ease: 2.5, intervalDays: 6, repetitions: 2,
			wantEase: 2.6, wantIntervalDays: 16, wantRepetitions: 3,
		},
		{
			name:    "quality 3 shrinks ease slightly",
			quality: 3, ease: 2.5, intervalDays: 6, repetitions: 2,
			wantEase: 2.36, wantIntervalDays: 14, wantRepetitions: 3,
		},
		{
			name:    "lapse resets interval and repetitions",
			quality: 2, ease: 2.5, intervalDays: 30, repetitions: 5,
			wantEase: 2.3, wantIntervalDays: 1, wantRepetitions: 0,
		},
		{
			name:    "ease never drops below the floor on a lapse",
			quality: 0, ease: 1.35, intervalDays: 10, repetitions: 3,
			wantEase: 1.3, wantIntervalDays: 1, wantRepetitions: 0,
		},
		{
			name:    "ease never drops below the floor on a weak success",
			quality: 3, ease: 1.3, intervalDays: 6, repetitions: 2,
			wantEase: 1.3, wantIntervalDays: 8, wantRepetitions: 3,
		},
		{
			name:    "quality above five is clamped",
			quality: 9, ease: 2.5, intervalDays: 1, repetitions: 1,
			wantEase: 2.6, wantIntervalDays: 6, wantRepetitions: 2,
		},
		{
			name:    "negative quality is clamped to a lapse",
			quality: -3, ease: 2.5, intervalDays: 6, repetitions: 2,
			wantEase: 2.3, wantIntervalDays: 1, wantRepetitions: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ease, intervalDays, repetitions := Update(tt.quality, tt.ease, tt.intervalDays, tt.repetitions)
			assert.InDelta(t, tt.wantEase, ease, 1e-9)
			assert.Equal(t, tt.wantIntervalDays, intervalDays)
			assert.Equal(t, tt.wantRepetitions, repetitions)
		})
	}
}

// A full review history: two successes climb to a six day interval, a lapse
// knocks everything back, and the next success starts over at one day.
func TestUpdate_ReviewSequence(t *testing.T) {
	ease, intervalDays, repetitions := DefaultEase, DefaultIntervalDays, 0

	ease, intervalDays, repetitions = Update(4, ease, intervalDays, repetitions)
	assert.InDelta(t, 2.5, ease, 1e-9)
	assert.Equal(t, 1, intervalDays)
	assert.Equal(t, 1, repetitions)

	ease, intervalDays, repetitions = Update(4, ease, intervalDays, repetitions)
	assert.InDelta(t, 2.5, ease, 1e-9)
	assert.Equal(t, 6, intervalDays)
	assert.Equal(t, 2, repetitions)

	ease, intervalDays, repetitions = Update(2, ease, intervalDays, repetitions)
	assert.InDelta(t, 2.3, ease, 1e-9)
	assert.Equal(t, 1, intervalDays)
	assert.Equal(t, 0, repetitions)

	ease, intervalDays, repetitions = Update(5, ease, intervalDays, repetitions)
	assert.InDelta(t, 2.4, ease, 1e-9)
	assert.Equal(t, 1, intervalDays)
	assert.Equal(t, 1, repetitions)
}

// An unbroken run of successes must keep pushing the next review further
// out: once past the fixed 1 and 6 day steps, every interval is strictly
// longer than the one before it, at any passing quality.
func TestUpdate_IntervalGrowsAcrossSuccesses(t *testing.T) {
	for _, quality := range []int{3, 4, 5} {
		t.Run(fmt.Sprintf("quality %d", quality), func(t *testing.T) {
			ease, intervalDays, repetitions := DefaultEase, DefaultIntervalDays, 0

			var intervals []int
			for i := 0; i < 8; i++ {
				ease, intervalDays, repetitions = Update(quality, ease, intervalDays, repetitions)
				assert.Equal(t, i+1, repetitions)
				intervals = append(intervals, intervalDays)
			}

			assert.Equal(t, 1, intervals[0])
			assert.Equal(t, 6, intervals[1])
			for i := 2; i < len(intervals); i++ {
				assert.Greater(t, intervals[i], intervals[i-1],
					"interval after success %d must exceed the previous one", i+1)
			}
		})
	}
}
