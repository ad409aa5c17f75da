package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmiprep/trainer/internal/attempt"
	"github.com/mmiprep/trainer/internal/inference"
	"github.com/mmiprep/trainer/internal/pdf"
	"github.com/mmiprep/trainer/internal/skill"
)

const reportAttemptLimit = 20

// ReportCLI writes a markdown progress report and renders it to PDF
type ReportCLI struct {
	*InteractiveSessionCLI
	userID    string
	outputDir string
	stats     statsCollector
	attempts  attempt.Repository
	now       func() time.Time
}

// NewReportCLI creates a new report CLI
func NewReportCLI(userID, outputDir string, stats statsCollector, attempts attempt.Repository) *ReportCLI {
	return &ReportCLI{
		InteractiveSessionCLI: newInteractiveSessionCLI(),
		userID:                userID,
		outputDir:             outputDir,
		stats:                 stats,
		attempts:              attempts,
		now:                   time.Now,
	}
}

func (r *ReportCLI) Generate(ctx context.Context) error {
	stats, err := r.stats.StudyStats(ctx, r.userID)
	if err != nil {
		return fmt.Errorf("stats.StudyStats() > %w", err)
	}
	attempts, err := r.attempts.FindRecentByUser(ctx, r.userID, reportAttemptLimit)
	if err != nil {
		return fmt.Errorf("attempts.FindRecentByUser() > %w", err)
	}

	markdown := r.buildMarkdown(stats.DueCount, stats.NewCount, statsSkillLines(stats.Skills), attempts)

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}
	markdownPath := filepath.Join(r.outputDir,
		fmt.Sprintf("progress-%s-%s.md", r.userID, r.now().Format(time.DateOnly)))
	if err := os.WriteFile(markdownPath, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("os.WriteFile > %w", err)
	}

	pdfPath, err := pdf.RenderReport(markdownPath)
	if err != nil {
		return fmt.Errorf("pdf.RenderReport() > %w", err)
	}
	fmt.Fprintf(r.stdoutWriter, "Report written to %s\n", pdfPath)
	return nil
}

type skillLine struct {
	name      skill.Name
	formatted string
}

func statsSkillLines(skills map[skill.Name]skill.State) []skillLine {
	lines := make([]skillLine, 0, len(skills))
	for _, name := range skill.Names() {
		state, ok := skills[name]
		if !ok {
			continue
		}
		formatted := "no data"
		if state.EMAScore.Valid {
			formatted = fmt.Sprintf("%.3f over %d attempts", state.EMAScore.Float64, state.NAttempts)
		}
		lines = append(lines, skillLine{name: name, formatted: formatted})
	}
	return lines
}

func (r *ReportCLI) buildMarkdown(dueCount, newCount int, skills []skillLine, attempts []attempt.Attempt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Progress report for %s\n\n", r.userID)
	fmt.Fprintf(&b, "Generated on %s\n\n", r.now().Format(time.DateOnly))

	b.WriteString("## Schedule\n\n")
	fmt.Fprintf(&b, "- Due for review: %d\n", dueCount)
	fmt.Fprintf(&b, "- Never practiced: %d\n\n", newCount)

	b.WriteString("## Skills\n\n")
	for _, line := range skills {
		fmt.Fprintf(&b, "- %s: %s\n", line.name, line.formatted)
	}
	b.WriteString("\n")

	b.WriteString("## Recent attempts\n\n")
	if len(attempts) == 0 {
		b.WriteString("No attempts recorded yet.\n")
	}
	for _, a := range attempts {
		fmt.Fprintf(&b, "### %s (%s, difficulty %d)\n\n",
			a.CreatedAt.Format(time.DateOnly), a.Mode, a.DifficultyUsed)
		var rubric inference.FinalRubric
		if err := json.Unmarshal([]byte(a.RubricJSON), &rubric); err == nil {
			if rubric.Summary != "" {
				fmt.Fprintf(&b, "%s\n\n", rubric.Summary)
			}
			for _, s := range rubric.Improvements {
				fmt.Fprintf(&b, "- Improve: %s\n", s)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
