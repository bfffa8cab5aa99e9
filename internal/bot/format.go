package bot

import (
	"fmt"
	"strings"

	"github.com/example/leitnerbot/internal/excel"
	"github.com/example/leitnerbot/internal/review"
	"github.com/example/leitnerbot/pkg/models"
)

const (
	// maxListedCards bounds /cards output and the edit/delete pickers
	maxListedCards = 50
	// maxImportErrors bounds the error lines echoed after an import
	maxImportErrors = 10
)

const helpText = `Send me any text to create a flashcard.

Formats:
• question - answer
• question on the first line, answer below
• a photo, video or file with a caption: the caption is the question, the media is the answer

Commands:
/review - review the next due card
/box - cards per Leitner box
/cards - list your cards
/edit - change the question of a card
/delete - delete a card
/reminder - turn the daily reminder on or off
/cancel - abandon the current review or edit
/help - show this message

Upload an .xlsx or .csv file (question in column A, answer in column B) to import many cards at once.`

// parseSubmission splits a chat message into a card question and answer.
// Text without a separator becomes a question-only card.
func parseSubmission(text string) review.Submission {
	text = strings.TrimSpace(text)
	if question, answer, ok := strings.Cut(text, "\n"); ok {
		return review.Submission{
			Question: strings.TrimSpace(question),
			Answer:   strings.TrimSpace(answer),
		}
	}
	if question, answer, ok := strings.Cut(text, " - "); ok {
		question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
		if question != "" && answer != "" {
			return review.Submission{Question: question, Answer: answer}
		}
	}
	return review.Submission{Question: text}
}

func formatPrompt(p *review.Prompt) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📝 Card #%d (box %d)\n\n%s\n\n", p.Card.ID, p.Card.Box, p.Card.Question)
	if p.Card.HasTextAnswer() {
		sb.WriteString("Type your answer or grade yourself with the buttons.")
	} else {
		sb.WriteString("Grade yourself with the buttons.")
	}
	if p.Remaining > 0 {
		fmt.Fprintf(&sb, "\n\n%d more due after this one.", p.Remaining)
	}
	return sb.String()
}

func formatResult(r *review.Result) string {
	var sb strings.Builder
	if r.Outcome == models.Correct {
		fmt.Fprintf(&sb, "✅ Correct! Moved to box %d.", r.NewBox)
	} else {
		fmt.Fprintf(&sb, "❌ Incorrect. Back to box %d.", r.NewBox)
		if r.Card.HasTextAnswer() {
			fmt.Fprintf(&sb, "\nAnswer: %s", r.Card.Answer.String)
		}
	}
	fmt.Fprintf(&sb, "\nNext review on %s.\n\nSend /review for the next card.", r.NewDue)
	return sb.String()
}

func formatBoxStatus(counts []models.BoxCount) string {
	if len(counts) == 0 {
		return msgNoCards
	}
	var sb strings.Builder
	sb.WriteString("📦 Your boxes:\n")
	total := 0
	for _, c := range counts {
		fmt.Fprintf(&sb, "\nBox %d: %d %s", c.Box, c.Count, plural(c.Count, "card", "cards"))
		total += c.Count
	}
	fmt.Fprintf(&sb, "\n\nTotal: %d", total)
	return sb.String()
}

func formatCardList(cards []models.Flashcard) string {
	if len(cards) == 0 {
		return msgNoCards
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗂 Your cards (%d):\n", len(cards))
	for i, card := range cards {
		if i == maxListedCards {
			fmt.Fprintf(&sb, "\n… and %d more", len(cards)-maxListedCards)
			break
		}
		fmt.Fprintf(&sb, "\n#%d [box %d, due %s] %s", card.ID, card.Box, card.DueDate, truncate(card.Question, 60))
	}
	return sb.String()
}

func formatImportResult(r *excel.ImportResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Import finished:\n- Rows: %d\n- Created: %d\n- Skipped: %d\n", r.TotalProcessed, r.Created, r.Skipped)
	if len(r.Errors) > 0 {
		fmt.Fprintf(&sb, "\n❌ Errors (%d):\n", len(r.Errors))
		for i, e := range r.Errors {
			if i == maxImportErrors {
				sb.WriteString("- …\n")
				break
			}
			sb.WriteString("- " + e + "\n")
		}
	}
	return sb.String()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
