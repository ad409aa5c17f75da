package cli

import (
	"context"
	"fmt"

	"github.com/mmiprep/trainer/internal/skill"
	"github.com/mmiprep/trainer/internal/srs"
)

type statsCollector interface {
	StudyStats(ctx context.Context, userID string) (srs.StudyStats, error)
}

// StatsCLI prints a one-shot summary of a user's study state
type StatsCLI struct {
	*InteractiveSessionCLI
	userID string
	stats  statsCollector
}

// NewStatsCLI creates a new stats CLI
func NewStatsCLI(userID string, stats statsCollector) *StatsCLI {
	return &StatsCLI{
		InteractiveSessionCLI: newInteractiveSessionCLI(),
		userID:                userID,
		stats:                 stats,
	}
}

func (r *StatsCLI) Show(ctx context.Context) error {
	stats, err := r.stats.StudyStats(ctx, r.userID)
	if err != nil {
		return fmt.Errorf("stats.StudyStats() > %w", err)
	}

	_, _ = r.bold.Fprintf(r.stdoutWriter, "Study stats for %s\n\n", r.userID)
	fmt.Fprintf(r.stdoutWriter, "  Due today: %d\n", stats.DueCount)
	fmt.Fprintf(r.stdoutWriter, "  Never practiced: %d\n\n", stats.NewCount)

	_, _ = r.bold.Fprintln(r.stdoutWriter, "Skills")
	for _, name := range skill.Names() {
		state, ok := stats.Skills[name]
		if !ok || !state.EMAScore.Valid {
			fmt.Fprintf(r.stdoutWriter, "  %-14s no data\n", name)
			continue
		}
		score := state.EMAScore.Float64
		scoreColor := r.red
		switch {
		case score >= 4:
			scoreColor = r.green
		case score >= 3:
			scoreColor = r.yellow
		}
		fmt.Fprintf(r.stdoutWriter, "  %-14s ", name)
		_, _ = scoreColor.Fprintf(r.stdoutWriter, "%.3f", score)
		fmt.Fprintf(r.stdoutWriter, " (%d attempts)\n", state.NAttempts)
	}

	if stats.HasSkillData {
		fmt.Fprintln(r.stdoutWriter)
		_, _ = r.italic.Fprintf(r.stdoutWriter, "Focus area: %s\n", stats.WeakestSkill)
	}
	return nil
}
