package recommend

import (
	"strings"
	"testing"

	"github.com/tessro/duet/internal/core"
)

func TestParseRecommendation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    core.Recommendation
		ok      bool
	}{
		{
			name:    "plain JSON",
			content: `{"artist": "Nick Drake", "title": "Pink Moon", "rationale": "a quiet answer"}`,
			want:    core.Recommendation{Artist: "Nick Drake", Title: "Pink Moon", Rationale: "a quiet answer"},
			ok:      true,
		},
		{
			name:    "code fenced",
			content: "```json\n{\"artist\": \"Khruangbin\", \"title\": \"Maria También\"}\n```",
			want:    core.Recommendation{Artist: "Khruangbin", Title: "Maria También"},
			ok:      true,
		},
		{
			name:    "surrounded by prose",
			content: `Here's my pick: {"artist": "Can", "title": "Vitamin C", "rationale": "that bassline"} — enjoy!`,
			want:    core.Recommendation{Artist: "Can", Title: "Vitamin C", Rationale: "that bassline"},
			ok:      true,
		},
		{
			name:    "braces inside strings",
			content: `{"artist": "Someone", "title": "Curly {Braces}", "rationale": "has a } in it"}`,
			want:    core.Recommendation{Artist: "Someone", Title: "Curly {Braces}", Rationale: "has a } in it"},
			ok:      true,
		},
		{
			name:    "whitespace trimmed",
			content: `{"artist": "  Nick Drake ", "title": " Pink Moon "}`,
			want:    core.Recommendation{Artist: "Nick Drake", Title: "Pink Moon"},
			ok:      true,
		},
		{
			name:    "missing artist",
			content: `{"title": "Pink Moon"}`,
			ok:      false,
		},
		{
			name:    "missing title",
			content: `{"artist": "Nick Drake"}`,
			ok:      false,
		},
		{
			name:    "no JSON at all",
			content: "I'd suggest Pink Moon by Nick Drake.",
			ok:      false,
		},
		{
			name:    "malformed JSON",
			content: `{"artist": "Nick Drake", "title":`,
			ok:      false,
		},
		{
			name:    "empty",
			content: "",
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRecommendation(tt.content)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildUserPrompt(t *testing.T) {
	history := []core.SessionSong{
		{Track: core.Track{Title: "Pink Moon", Artist: "Nick Drake"}, SelectedBy: core.TurnUser},
	}
	exclusions := []core.Exclusion{
		{Artist: "Nick Drake", Title: "Northern Sky"},
	}

	prompt := buildUserPrompt(history, exclusions)
	if !strings.Contains(prompt, "Pink Moon") {
		t.Error("expected history track in prompt")
	}
	if !strings.Contains(prompt, "Northern Sky") {
		t.Error("expected exclusion in prompt")
	}
	if !strings.Contains(prompt, "picked by user") {
		t.Error("expected selector attribution in prompt")
	}
}

func TestBuildUserPromptEmptySession(t *testing.T) {
	prompt := buildUserPrompt(nil, nil)
	if !strings.Contains(prompt, "just starting") {
		t.Error("expected empty-session framing")
	}
	if strings.Contains(prompt, "Do not suggest") {
		t.Error("no exclusion section expected for empty exclusions")
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	base := buildSystemPrompt("")
	styled := buildSystemPrompt("late-night jazz curator")
	if !strings.Contains(styled, "late-night jazz curator") {
		t.Error("expected persona style appended")
	}
	if len(styled) <= len(base) {
		t.Error("styled prompt should extend the base prompt")
	}
}
