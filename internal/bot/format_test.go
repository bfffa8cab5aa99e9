package bot

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/example/leitnerbot/internal/excel"
	"github.com/example/leitnerbot/internal/review"
	"github.com/example/leitnerbot/pkg/models"
)

func TestParseSubmission(t *testing.T) {
	tests := []struct {
		name string
		text string
		want review.Submission
	}{
		{"question only", "  What is Go?  ", review.Submission{Question: "What is Go?"}},
		{"dash separated", "hello - bonjour", review.Submission{Question: "hello", Answer: "bonjour"}},
		{"hyphenated word", "well-known", review.Submission{Question: "well-known"}},
		{"dash without answer", "hello - ", review.Submission{Question: "hello -"}},
		{"multi line", "Capital of Peru?\nLima\n(since 1535)", review.Submission{Question: "Capital of Peru?", Answer: "Lima\n(since 1535)"}},
		{"multi line wins over dash", "a - b\nc", review.Submission{Question: "a - b", Answer: "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseSubmission(tt.text); got != tt.want {
				t.Errorf("parseSubmission(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFormatBoxStatus(t *testing.T) {
	if got := formatBoxStatus(nil); got != msgNoCards {
		t.Errorf("empty status = %q", got)
	}
	got := formatBoxStatus([]models.BoxCount{{Box: 1, Count: 1}, {Box: 3, Count: 4}})
	for _, want := range []string{"Box 1: 1 card", "Box 3: 4 cards", "Total: 5"} {
		if !strings.Contains(got, want) {
			t.Errorf("status %q missing %q", got, want)
		}
	}
}

func TestFormatCardListTruncates(t *testing.T) {
	cards := make([]models.Flashcard, maxListedCards+3)
	for i := range cards {
		cards[i] = models.Flashcard{ID: int64(i + 1), Box: 1, Question: "q", DueDate: models.NewDate(2024, time.May, 2)}
	}
	got := formatCardList(cards)
	if !strings.Contains(got, "#1 [box 1, due 2024-05-02] q") {
		t.Errorf("missing first card line in %q", got)
	}
	if !strings.Contains(got, "and 3 more") {
		t.Errorf("missing overflow line")
	}
}

func TestFormatResult(t *testing.T) {
	card := models.Flashcard{ID: 1, Answer: sql.NullString{String: "Lima", Valid: true}}
	due := models.NewDate(2024, time.May, 4)

	correct := formatResult(&review.Result{Card: card, Outcome: models.Correct, NewBox: 3, NewDue: due})
	if !strings.Contains(correct, "box 3") || strings.Contains(correct, "Lima") {
		t.Errorf("correct result = %q", correct)
	}

	incorrect := formatResult(&review.Result{Card: card, Outcome: models.Incorrect, NewBox: 1, NewDue: due})
	if !strings.Contains(incorrect, "Answer: Lima") || !strings.Contains(incorrect, "2024-05-04") {
		t.Errorf("incorrect result = %q", incorrect)
	}
}

func TestFormatImportResultLimitsErrors(t *testing.T) {
	r := &excel.ImportResult{TotalProcessed: 20, Created: 5, Skipped: 15}
	for i := 0; i < 15; i++ {
		r.Errors = append(r.Errors, "Row x: question cannot be empty")
	}
	got := formatImportResult(r)
	if n := strings.Count(got, "Row x"); n != maxImportErrors {
		t.Errorf("listed %d errors, want %d", n, maxImportErrors)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("héllo wörld", 6); got != "héllo…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a\n  b", 10); got != "a b" {
		t.Errorf("truncate = %q", got)
	}
}
