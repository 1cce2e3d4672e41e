// Package recommend implements the AI persona that picks tracks via the
// OpenAI chat completion API.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/tessro/duet/internal/core"
	"github.com/tessro/duet/internal/logger"
)

const systemPrompt = `You are one half of a two-person listening session: the human picks a track, then you pick a track, taking turns. Suggest exactly one real, existing song that fits the session so far and your persona's taste.

Respond with a single JSON object and nothing else:
{"artist": "...", "title": "...", "rationale": "one sentence on why this track, addressed to your listening partner"}

Rules:
- Never suggest a track from the exclusion list, by any spelling.
- Prefer tracks that converse with the session history: echo a mood, answer a theme, or pivot deliberately.
- The rationale is shown to the human. Keep it short and warm.`

// Options configures a Recommender.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
}

// Recommender asks a chat model for one track suggestion at a time. It
// implements core.Recommender.
type Recommender struct {
	client      *openai.Client
	model       string
	temperature float32
	persona     string
}

var _ core.Recommender = (*Recommender)(nil)

// New creates a Recommender. The persona style passed to Recommend shapes
// each request's system prompt.
func New(opts Options) (*Recommender, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("AI API key is required")
	}
	if opts.Model == "" {
		opts.Model = openai.GPT4oMini
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	return &Recommender{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		temperature: opts.Temperature,
	}, nil
}

// Recommend asks the model for one track. A transport failure returns an
// error; a response that cannot be parsed into a usable recommendation
// returns an empty recommendation and no error, so callers retry both the
// same way.
func (r *Recommender) Recommend(ctx context.Context, personaStyle string, history []core.SessionSong, exclusions []core.Exclusion) (core.Recommendation, error) {
	req := openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: r.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(personaStyle)},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(history, exclusions)},
		},
	}

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return core.Recommendation{}, fmt.Errorf("recommendation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		logger.Warn("AI returned no choices")
		return core.Recommendation{}, nil
	}

	rec, ok := ParseRecommendation(resp.Choices[0].Message.Content)
	if !ok {
		logger.Warn("AI returned unparseable recommendation",
			logger.String("content", truncate(resp.Choices[0].Message.Content, 200)))
		return core.Recommendation{}, nil
	}

	logger.Debug("received recommendation",
		logger.String("artist", rec.Artist),
		logger.String("title", rec.Title))
	return rec, nil
}

func buildSystemPrompt(personaStyle string) string {
	if personaStyle == "" {
		return systemPrompt
	}
	return systemPrompt + "\n\nYour persona: " + personaStyle
}

func buildUserPrompt(history []core.SessionSong, exclusions []core.Exclusion) string {
	var b strings.Builder

	if len(history) == 0 {
		b.WriteString("The session is just starting; nothing has played yet. Open with something inviting.\n")
	} else {
		b.WriteString("Session so far, oldest first:\n")
		for _, song := range history {
			fmt.Fprintf(&b, "- %q by %s (picked by %s)\n", song.Track.Title, song.Track.Artist, song.SelectedBy)
		}
	}

	if len(exclusions) > 0 {
		b.WriteString("\nDo not suggest any of these:\n")
		for _, e := range exclusions {
			fmt.Fprintf(&b, "- %q by %s\n", e.Title, e.Artist)
		}
	}

	b.WriteString("\nYour pick?")
	return b.String()
}

// ParseRecommendation extracts a recommendation from model output. Models
// occasionally wrap the JSON in code fences or prose; the first balanced
// object in the text is used. Returns false for anything unusable.
func ParseRecommendation(content string) (core.Recommendation, bool) {
	raw := extractJSON(content)
	if raw == "" {
		return core.Recommendation{}, false
	}

	var rec core.Recommendation
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return core.Recommendation{}, false
	}

	rec.Artist = strings.TrimSpace(rec.Artist)
	rec.Title = strings.TrimSpace(rec.Title)
	rec.Rationale = strings.TrimSpace(rec.Rationale)
	if rec.Artist == "" || rec.Title == "" {
		return core.Recommendation{}, false
	}
	return rec, true
}

// extractJSON returns the first balanced top-level JSON object in s.
func extractJSON(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
