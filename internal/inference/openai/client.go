package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/mmiprep/trainer/internal/inference"
)

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(apiKey, model string, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.openai.com/v1")
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Retry on JSON parsing errors as they might be due to incomplete responses
	errStr := err.Error()
	if strings.Contains(errStr, "json.Unmarshal") || strings.Contains(errStr, "unexpected end of JSON input") {
		return true
	}

	// Retry on network-related errors
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// Retry on rate limiting (429)
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}

// ScoreAnswer implements the inference.Client interface
func (client *Client) ScoreAnswer(
	ctx context.Context,
	params inference.ScoreAnswerRequest,
) (inference.ScoreAnswerResponse, error) {
	var result inference.ScoreAnswerResponse
	if err := retry.Do(
		func() error {
			response, err := client.scoreAnswer(ctx, params)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = response
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return inference.ScoreAnswerResponse{}, err
	}
	return result, nil
}

func (client *Client) getRequestBody(args inference.ScoreAnswerRequest) (ChatCompletionRequest, error) {
	systemPrompt := `You are an experienced multiple mini-interview (MMI) assessor grading a candidate's spoken answer.

GOAL
Return ONLY a JSON object with this shape:
{
  "scores": {"structure": 0-5, "empathy": 0-5, "perspective": 0-5, "reasoning": 0-5, "actionability": 0-5, "clarity": 0-5},
  "strengths": ["..."],
  "improvements": ["..."],
  "traps_observed": ["..."],
  "summary": "..."
}

STRICT OUTPUT: No text outside the JSON. Scores may use one decimal (e.g. 3.5).
Only include a skill in "scores" when the answer gives you real evidence for it;
omit skills you cannot assess from this answer. Never invent a score.

RUBRIC (0-5 per skill)
- structure: is the answer organized - a clear opening, a path through the issue, a close?
- empathy: does the candidate name and engage the feelings and stakes of the people involved?
- perspective: does the candidate consider viewpoints beyond their own, including ones they reject?
- reasoning: does the candidate weigh trade-offs and justify positions rather than assert them?
- actionability: does the candidate commit to concrete next steps instead of staying abstract?
- clarity: is the language plain, specific, and free of filler and hedging?

ANCHORS
- 0-1: absent or actively harmful (dismissive, evasive, incoherent)
- 2: attempted but superficial; generic statements with no specifics
- 3: competent; covers the expected ground without depth
- 4: strong; specific, balanced, shows genuine engagement
- 5: exceptional; would stand out to a real panel

GRADING GUIDANCE
- "human_markers" lists behaviors strong candidates show for this station type; reward them when present.
- "common_traps" lists failure modes for this station type; list any you observe in "traps_observed" and reflect them in the scores.
- Judge the candidate's answer, not their position. A well-reasoned answer you disagree with still scores high.
- Step answers, when present, are responses to a structured walkthrough; grade them as one body of work.
- Do not reward length. A short, direct answer can earn a 5; a long rambling one cannot.`

	// Build messages: system prompt + the answer payload
	messages := []Message{
		{
			Role:    RoleSystem,
			Content: systemPrompt,
		},
	}

	userContent := bytes.NewBuffer(nil)
	if err := json.NewEncoder(userContent).Encode(args); err != nil {
		return ChatCompletionRequest{}, fmt.Errorf("failed to marshal score request: %w", err)
	}
	messages = append(messages, Message{
		Role:    RoleUser,
		Content: userContent.String(),
	})

	body := ChatCompletionRequest{
		Model:       client.model,
		Temperature: 0.2,
		Messages:    messages,
	}

	return body, nil
}

// scoreAnswer grades a single answer transcript against the skill rubric
func (client *Client) scoreAnswer(
	ctx context.Context,
	args inference.ScoreAnswerRequest,
) (inference.ScoreAnswerResponse, error) {
	if strings.TrimSpace(args.Transcript) == "" && len(args.StepAnswers) == 0 {
		return inference.ScoreAnswerResponse{}, nil
	}

	requestBody, err := client.getRequestBody(args)
	if err != nil {
		return inference.ScoreAnswerResponse{}, fmt.Errorf("getRequestBody > %w", err)
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return inference.ScoreAnswerResponse{}, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return inference.ScoreAnswerResponse{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return inference.ScoreAnswerResponse{}, fmt.Errorf("empty response body or choices: %s", response.String())
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return inference.ScoreAnswerResponse{}, fmt.Errorf("empty response content: %s", response.String())
	}
	slog.Default().Debug("openai response content",
		"request", requestBody,
		"response", responseBody,
	)

	var decoded inference.FinalRubric
	if err := json.NewDecoder(strings.NewReader(content)).Decode(&decoded); err != nil {
		slog.Default().Error("Failed to parse OpenAI response as JSON",
			"request", requestBody,
			"archetype", args.Archetype,
			"error", err)
		return inference.ScoreAnswerResponse{}, fmt.Errorf("json.Unmarshal(%s) > %w", content, err)
	}
	return inference.ScoreAnswerResponse{Rubric: decoded}, nil
}
