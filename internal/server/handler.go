// Package server provides the JSON HTTP API for the trainer service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmiprep/trainer/internal/archetype"
	"github.com/mmiprep/trainer/internal/attempt"
	"github.com/mmiprep/trainer/internal/database"
	"github.com/mmiprep/trainer/internal/inference"
	"github.com/mmiprep/trainer/internal/question"
	"github.com/mmiprep/trainer/internal/skill"
	"github.com/mmiprep/trainer/internal/srs"
)

type cardSelector interface {
	SelectNextCard(ctx context.Context, userID string) (*question.Question, error)
}

type reviewRecorder interface {
	RecordReview(ctx context.Context, userID, questionID string, quality int) (srs.Record, error)
}

type skillUpdater interface {
	UpdateSkillsFromRubric(ctx context.Context, userID string, rubric skill.Rubric) error
}

type statsCollector interface {
	StudyStats(ctx context.Context, userID string) (srs.StudyStats, error)
}

// TrainerHandler serves the practice API.
type TrainerHandler struct {
	catalog   archetype.Catalog
	selector  cardSelector
	scheduler reviewRecorder
	estimator skillUpdater
	attempts  attempt.Repository
	stats     statsCollector
	questions question.Repository
	scorer    inference.Client
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(
	catalog archetype.Catalog,
	selector cardSelector,
	scheduler reviewRecorder,
	estimator skillUpdater,
	attempts attempt.Repository,
	stats statsCollector,
	questions question.Repository,
	scorer inference.Client,
) *TrainerHandler {
	return &TrainerHandler{
		catalog:   catalog,
		selector:  selector,
		scheduler: scheduler,
		estimator: estimator,
		attempts:  attempts,
		stats:     stats,
		questions: questions,
		scorer:    scorer,
	}
}

// Register mounts the API routes on the mux.
func (h *TrainerHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/next-card", h.GetNextCard)
	mux.HandleFunc("POST /api/v1/reviews", h.PostReview)
	mux.HandleFunc("GET /api/v1/stats", h.GetStats)
}

type stepResponse struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

type nextCardResponse struct {
	QuestionID    string         `json:"question_id"`
	Archetype     string         `json:"archetype"`
	ArchetypeName string         `json:"archetype_name"`
	Goal          string         `json:"goal"`
	Difficulty    int            `json:"difficulty"`
	PromptText    string         `json:"prompt_text"`
	Steps         []stepResponse `json:"steps,omitempty"`
}

// GetNextCard picks the next practice question for the user.
func (h *TrainerHandler) GetNextCard(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	card, err := h.selector.SelectNextCard(r.Context(), userID)
	if err != nil {
		writeInternalError(w, fmt.Errorf("selector.SelectNextCard() > %w", err))
		return
	}
	if card == nil {
		writeError(w, http.StatusNotFound, "no questions available")
		return
	}

	arch, ok := h.catalog.Get(card.Archetype)
	if !ok {
		writeInternalError(w, fmt.Errorf("unknown archetype %q for question %s", card.Archetype, card.ID))
		return
	}

	response := nextCardResponse{
		QuestionID:    card.ID,
		Archetype:     arch.Key,
		ArchetypeName: arch.Name,
		Goal:          arch.Goal,
		Difficulty:    card.DifficultyBase,
		PromptText:    card.PromptText,
	}
	for _, step := range arch.Steps {
		response.Steps = append(response.Steps, stepResponse{ID: step.ID, Prompt: step.Prompt})
	}
	writeJSON(w, http.StatusOK, response)
}

type reviewRequest struct {
	UserID     string `json:"user_id"`
	QuestionID string `json:"question_id"`
	Transcript string `json:"transcript"`
	Mode       string `json:"mode,omitempty"`
}

type reviewResponse struct {
	Rubric       inference.FinalRubric `json:"rubric"`
	Quality      int                   `json:"quality"`
	Ease         float64               `json:"ease"`
	IntervalDays int                   `json:"interval_days"`
	Repetitions  int                   `json:"repetitions"`
	DueDate      string                `json:"due_date"`
}

// PostReview grades an answer, folds it into the schedule and skill state,
// and records the attempt.
func (h *TrainerHandler) PostReview(w http.ResponseWriter, r *http.Request) {
	var request reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if request.UserID == "" || request.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "user_id and question_id are required")
		return
	}

	card, err := h.questions.FindByID(r.Context(), request.QuestionID)
	if err != nil {
		writeInternalError(w, fmt.Errorf("questions.FindByID() > %w", err))
		return
	}
	if card == nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	arch, ok := h.catalog.Get(card.Archetype)
	if !ok {
		writeInternalError(w, fmt.Errorf("unknown archetype %q for question %s", card.Archetype, card.ID))
		return
	}

	result, err := h.scorer.ScoreAnswer(r.Context(), inference.ScoreAnswerRequest{
		Archetype:     arch.Key,
		ArchetypeGoal: arch.Goal,
		PromptText:    card.PromptText,
		Transcript:    request.Transcript,
		HumanMarkers:  arch.HumanMarkers,
		CommonTraps:   arch.CommonTraps,
	})
	if err != nil {
		writeInternalError(w, fmt.Errorf("scorer.ScoreAnswer() > %w", err))
		return
	}

	rubric, err := skill.NewRubric(result.Rubric.Scores)
	if err != nil {
		writeInternalError(w, fmt.Errorf("skill.NewRubric() > %w", err))
		return
	}

	quality := srs.QualityFromScores(rubric)
	record, err := h.scheduler.RecordReview(r.Context(), request.UserID, card.ID, quality)
	if err != nil {
		writeInternalError(w, fmt.Errorf("scheduler.RecordReview() > %w", err))
		return
	}
	if err := h.estimator.UpdateSkillsFromRubric(r.Context(), request.UserID, rubric); err != nil {
		writeInternalError(w, fmt.Errorf("estimator.UpdateSkillsFromRubric() > %w", err))
		return
	}

	mode := attempt.Mode(request.Mode)
	if mode != attempt.ModeGuided && mode != attempt.ModeTimed {
		mode = attempt.ModeTimed
	}
	rubricJSON, err := json.Marshal(result.Rubric)
	if err != nil {
		writeInternalError(w, fmt.Errorf("json.Marshal(rubric) > %w", err))
		return
	}
	if err := h.attempts.Create(r.Context(), &attempt.Attempt{
		UserID:         request.UserID,
		QuestionID:     card.ID,
		Mode:           mode,
		DifficultyUsed: card.DifficultyBase,
		TranscriptText: request.Transcript,
		RubricJSON:     string(rubricJSON),
	}); err != nil {
		writeInternalError(w, fmt.Errorf("attempts.Create() > %w", err))
		return
	}

	writeJSON(w, http.StatusOK, reviewResponse{
		Rubric:       result.Rubric,
		Quality:      quality,
		Ease:         record.Ease,
		IntervalDays: record.IntervalDays,
		Repetitions:  record.Repetitions,
		DueDate:      record.DueDate.Format(time.DateOnly),
	})
}

type skillStatsResponse struct {
	EMAScore  *float64 `json:"ema_score"`
	NAttempts int      `json:"n_attempts"`
}

type statsResponse struct {
	DueCount     int                           `json:"due_count"`
	NewCount     int                           `json:"new_count"`
	Skills       map[string]skillStatsResponse `json:"skills"`
	WeakestSkill string                        `json:"weakest_skill,omitempty"`
}

// GetStats returns the user's study statistics.
func (h *TrainerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	stats, err := h.stats.StudyStats(r.Context(), userID)
	if err != nil {
		writeInternalError(w, fmt.Errorf("stats.StudyStats() > %w", err))
		return
	}

	response := statsResponse{
		DueCount: stats.DueCount,
		NewCount: stats.NewCount,
		Skills:   make(map[string]skillStatsResponse, len(stats.Skills)),
	}
	for name, state := range stats.Skills {
		entry := skillStatsResponse{NAttempts: state.NAttempts}
		if state.EMAScore.Valid {
			score := state.EMAScore.Float64
			entry.EMAScore = &score
		}
		response.Skills[string(name)] = entry
	}
	if stats.HasSkillData {
		response.WeakestSkill = string(stats.WeakestSkill)
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeInternalError(w http.ResponseWriter, err error) {
	slog.Default().Error("request failed", "error", err)
	status := http.StatusInternalServerError
	if errors.Is(err, database.ErrUnavailable) {
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, "internal error")
}
