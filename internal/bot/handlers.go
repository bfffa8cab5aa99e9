package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/leitnerbot/internal/excel"
	"github.com/example/leitnerbot/internal/review"
	"github.com/example/leitnerbot/pkg/models"
)

// maxImportSize is the largest spreadsheet accepted over chat, in bytes
const maxImportSize = 5 << 20

const (
	msgUnavailable = "⚠️ That card is no longer available."
	msgNoCards     = "You have no cards yet. Send me a question to create one."
)

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	isNew, err := b.coordinator.RegisterUser(ctx, message.From.ID)
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	if isNew {
		log.Printf("New user %d (%s)", message.From.ID, displayName(message.From))
		b.notifyAdmins(fmt.Sprintf("👤 New user: %s (id %d)", displayName(message.From), message.From.ID))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "👋 Welcome to the Leitner flashcard bot!\n\n"+helpText)
	msg.ReplyMarkup = createKeyboard(MainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleHelp(ctx context.Context, message *tgbotapi.Message) error {
	return b.reply(message.Chat.ID, helpText)
}

func (b *Bot) handleReview(ctx context.Context, message *tgbotapi.Message) error {
	return b.startReview(ctx, message.From.ID, message.Chat.ID)
}

func (b *Bot) startReview(ctx context.Context, userID, chatID int64) error {
	prompt, err := b.coordinator.StartReview(ctx, userID, b.coordinator.Today())
	if err != nil {
		return fmt.Errorf("failed to start review: %w", err)
	}
	if prompt == nil {
		return b.reply(chatID, "🎉 No cards are due right now. Come back later!")
	}

	msg := tgbotapi.NewMessage(chatID, formatPrompt(prompt))
	msg.ReplyMarkup = createKeyboard(reviewButtons(prompt.Card))
	return b.sendMessage(msg)
}

func (b *Bot) handleReminder(ctx context.Context, message *tgbotapi.Message) error {
	enabled, err := b.coordinator.ToggleReminder(ctx, message.From.ID)
	if err != nil {
		return fmt.Errorf("failed to toggle reminder: %w", err)
	}
	if enabled {
		return b.reply(message.Chat.ID, "🔔 Reminders are on.")
	}
	return b.reply(message.Chat.ID, "🔕 Reminders are off.")
}

func (b *Bot) handleBox(ctx context.Context, message *tgbotapi.Message) error {
	return b.sendBoxStatus(ctx, message.From.ID, message.Chat.ID)
}

func (b *Bot) sendBoxStatus(ctx context.Context, userID, chatID int64) error {
	counts, err := b.coordinator.BoxStatus(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count boxes: %w", err)
	}
	return b.reply(chatID, formatBoxStatus(counts))
}

func (b *Bot) handleCards(ctx context.Context, message *tgbotapi.Message) error {
	cards, err := b.coordinator.Cards(ctx, message.From.ID)
	if err != nil {
		return fmt.Errorf("failed to list cards: %w", err)
	}
	return b.reply(message.Chat.ID, formatCardList(cards))
}

func (b *Bot) handleEdit(ctx context.Context, message *tgbotapi.Message) error {
	if cardID, ok := cardArgument(message); ok {
		return b.beginEdit(ctx, message.From.ID, message.Chat.ID, cardID)
	}
	return b.sendCardPicker(ctx, message, actionEdit, "✏️", "Which card do you want to edit?")
}

func (b *Bot) handleDelete(ctx context.Context, message *tgbotapi.Message) error {
	if cardID, ok := cardArgument(message); ok {
		return b.deleteCard(ctx, message.From.ID, message.Chat.ID, cardID)
	}
	return b.sendCardPicker(ctx, message, actionDelete, "🗑", "Which card do you want to delete?")
}

func (b *Bot) sendCardPicker(ctx context.Context, message *tgbotapi.Message, action, icon, text string) error {
	cards, err := b.coordinator.Cards(ctx, message.From.ID)
	if err != nil {
		return fmt.Errorf("failed to list cards: %w", err)
	}
	if len(cards) == 0 {
		return b.reply(message.Chat.ID, msgNoCards)
	}
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = createKeyboard(cardButtons(cards, action, icon))
	return b.sendMessage(msg)
}

func (b *Bot) beginEdit(ctx context.Context, userID, chatID, cardID int64) error {
	err := b.coordinator.BeginEdit(ctx, userID, cardID)
	if errors.Is(err, review.ErrNotFound) {
		return b.reply(chatID, msgUnavailable)
	}
	if err != nil {
		return fmt.Errorf("failed to begin edit: %w", err)
	}
	return b.reply(chatID, fmt.Sprintf("✏️ Send the new question for card #%d, or /cancel.", cardID))
}

func (b *Bot) deleteCard(ctx context.Context, userID, chatID, cardID int64) error {
	err := b.coordinator.DeleteCard(ctx, userID, cardID)
	if errors.Is(err, review.ErrNotFound) {
		return b.reply(chatID, msgUnavailable)
	}
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return b.reply(chatID, fmt.Sprintf("🗑 Card #%d deleted.", cardID))
}

func (b *Bot) handleCancel(ctx context.Context, message *tgbotapi.Message) error {
	return b.cancel(message.From.ID, message.Chat.ID)
}

func (b *Bot) cancel(userID, chatID int64) error {
	switch b.coordinator.CancelPending(userID) {
	case review.AwaitingOutcome:
		return b.reply(chatID, "Review cancelled.")
	case review.AwaitingEditText:
		return b.reply(chatID, "Edit cancelled.")
	}
	return b.reply(chatID, "Nothing to cancel.")
}

func (b *Bot) handleCancelUser(ctx context.Context, message *tgbotapi.Message) error {
	userID, err := strconv.ParseInt(strings.TrimSpace(message.CommandArguments()), 10, 64)
	if err != nil {
		return b.reply(message.Chat.ID, "Usage: /cancel_user <user id>")
	}
	prev := b.coordinator.CancelPending(userID)
	log.Printf("Admin %d cleared %s state of user %d", message.From.ID, prev, userID)
	return b.reply(message.Chat.ID, fmt.Sprintf("User %d: cleared %s state.", userID, prev))
}

// handleText routes plain text by the user's pending state: a new question
// while editing, a typed answer while reviewing, otherwise a new card.
func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) error {
	userID, chatID := message.From.ID, message.Chat.ID

	switch b.coordinator.Pending(userID).State {
	case review.AwaitingEditText:
		cardID, err := b.coordinator.CompleteEdit(ctx, userID, message.Text)
		switch {
		case errors.Is(err, review.ErrEmptyQuestion):
			return b.reply(chatID, "The question cannot be empty.")
		case errors.Is(err, review.ErrNotFound):
			return b.reply(chatID, msgUnavailable)
		case errors.Is(err, review.ErrInvalidState):
			return b.reply(chatID, "Nothing is being edited. Use /edit to choose a card.")
		case err != nil:
			return fmt.Errorf("failed to edit card: %w", err)
		}
		return b.reply(chatID, fmt.Sprintf("✏️ Card #%d updated.", cardID))

	case review.AwaitingOutcome:
		result, err := b.coordinator.AnswerText(ctx, userID, message.Text, b.coordinator.Today())
		switch {
		case errors.Is(err, review.ErrNoTextAnswer):
			return b.reply(chatID, "This card has no text answer. Grade yourself with the buttons, or /cancel.")
		case errors.Is(err, review.ErrNotFound):
			return b.reply(chatID, msgUnavailable)
		case errors.Is(err, review.ErrInvalidState):
			return b.reply(chatID, "No review is in progress. Use /review to start.")
		case err != nil:
			return fmt.Errorf("failed to grade answer: %w", err)
		}
		return b.sendResult(chatID, userID, result)
	}

	return b.submitCard(ctx, message, parseSubmission(message.Text))
}

// handleMediaCard stores the caption as the question and the message itself as the answer
func (b *Bot) handleMediaCard(ctx context.Context, message *tgbotapi.Message) error {
	return b.submitCard(ctx, message, review.Submission{
		Question:  message.Caption,
		AnswerRef: int64(message.MessageID),
	})
}

func (b *Bot) submitCard(ctx context.Context, message *tgbotapi.Message, sub review.Submission) error {
	card, err := b.coordinator.SubmitCard(ctx, message.From.ID, sub, b.coordinator.Today())
	if errors.Is(err, review.ErrEmptyQuestion) {
		return b.reply(message.Chat.ID, "The question cannot be empty.")
	}
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	text := fmt.Sprintf("✅ Card #%d saved to box %d. First review on %s.", card.ID, card.Box, card.DueDate)
	if !card.HasTextAnswer() && !card.AnswerRef.Valid {
		text += "\nNo answer stored; grade yourself with the buttons when reviewing."
	}
	return b.reply(message.Chat.ID, text)
}

// handleDocument imports an uploaded spreadsheet
func (b *Bot) handleDocument(ctx context.Context, message *tgbotapi.Message) error {
	doc := message.Document
	format, err := excel.FormatOf(doc.FileName)
	if err != nil {
		return b.reply(message.Chat.ID, "Send an .xlsx or .csv file to import cards, or add a caption to save the file as a card.")
	}
	if doc.FileSize > maxImportSize {
		return b.reply(message.Chat.ID, "❌ The file is too large to import.")
	}

	body, err := b.download(ctx, doc.FileID)
	if err != nil {
		if replyErr := b.reply(message.Chat.ID, "❌ Could not download the file. Please try again."); replyErr != nil {
			log.Printf("Error sending download failure: %v", replyErr)
		}
		return err
	}
	defer body.Close()

	result, err := b.importer.Import(ctx, message.From.ID, io.LimitReader(body, maxImportSize), format, b.coordinator.Today())
	if err != nil {
		log.Printf("Import of %s for user %d failed: %v", doc.FileName, message.From.ID, err)
		return b.reply(message.Chat.ID, "❌ Could not read the file: "+err.Error())
	}
	log.Printf("Imported %d cards for user %d from %s", result.Created, message.From.ID, doc.FileName)
	return b.reply(message.Chat.ID, formatImportResult(result))
}

func (b *Bot) download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download file: %s", resp.Status)
	}
	return resp.Body, nil
}

func (b *Bot) sendResult(chatID, userID int64, result *review.Result) error {
	if err := b.reply(chatID, formatResult(result)); err != nil {
		return err
	}
	if result.Outcome == models.Incorrect && result.Card.AnswerRef.Valid {
		return b.copyAnswer(chatID, userID, result.Card.AnswerRef.Int64)
	}
	return nil
}

// copyAnswer re-sends the message holding a card's answer
func (b *Bot) copyAnswer(chatID, userID, messageID int64) error {
	if _, err := b.api.Request(tgbotapi.NewCopyMessage(chatID, userID, int(messageID))); err != nil {
		return fmt.Errorf("failed to copy answer message: %w", err)
	}
	return nil
}

func (b *Bot) onReview(ctx context.Context, callback *tgbotapi.CallbackQuery, _ callbackData) error {
	b.answerCallback(callback, "")
	return b.startReview(ctx, callback.From.ID, callback.Message.Chat.ID)
}

func (b *Bot) onBoxes(ctx context.Context, callback *tgbotapi.CallbackQuery, _ callbackData) error {
	b.answerCallback(callback, "")
	return b.sendBoxStatus(ctx, callback.From.ID, callback.Message.Chat.ID)
}

func (b *Bot) onOutcome(ctx context.Context, callback *tgbotapi.CallbackQuery, data callbackData) error {
	outcome, err := models.ParseOutcome(data.Arg)
	if err != nil {
		b.answerCallback(callback, "")
		return err
	}

	userID, chatID := callback.From.ID, callback.Message.Chat.ID
	result, err := b.coordinator.RecordOutcome(ctx, userID, data.CardID, outcome, b.coordinator.Today())
	switch {
	case errors.Is(err, review.ErrStaleOutcome):
		b.answerCallback(callback, "Already recorded.")
		return nil
	case errors.Is(err, review.ErrNotFound):
		b.answerCallback(callback, "")
		return b.reply(chatID, msgUnavailable)
	case err != nil:
		b.answerCallback(callback, "")
		return fmt.Errorf("failed to record outcome: %w", err)
	}

	b.answerCallback(callback, "")
	b.clearKeyboard(callback.Message)
	return b.sendResult(chatID, userID, result)
}

func (b *Bot) onReveal(ctx context.Context, callback *tgbotapi.CallbackQuery, data callbackData) error {
	userID, chatID := callback.From.ID, callback.Message.Chat.ID
	card, err := b.coordinator.Card(ctx, userID, data.CardID)
	if errors.Is(err, review.ErrNotFound) {
		b.answerCallback(callback, "That card is no longer available.")
		return nil
	}
	if err != nil {
		b.answerCallback(callback, "")
		return err
	}

	b.answerCallback(callback, "")
	switch {
	case card.HasTextAnswer():
		return b.reply(chatID, "💡 "+card.Answer.String)
	case card.AnswerRef.Valid:
		return b.copyAnswer(chatID, userID, card.AnswerRef.Int64)
	}
	return b.reply(chatID, "This card has no stored answer.")
}

func (b *Bot) onEdit(ctx context.Context, callback *tgbotapi.CallbackQuery, data callbackData) error {
	b.answerCallback(callback, "")
	return b.beginEdit(ctx, callback.From.ID, callback.Message.Chat.ID, data.CardID)
}

func (b *Bot) onDelete(ctx context.Context, callback *tgbotapi.CallbackQuery, data callbackData) error {
	b.answerCallback(callback, "")
	return b.deleteCard(ctx, callback.From.ID, callback.Message.Chat.ID, data.CardID)
}

func (b *Bot) onCancel(ctx context.Context, callback *tgbotapi.CallbackQuery, _ callbackData) error {
	b.answerCallback(callback, "")
	return b.cancel(callback.From.ID, callback.Message.Chat.ID)
}

// clearKeyboard removes the grading buttons from a graded prompt
func (b *Bot) clearKeyboard(message *tgbotapi.Message) {
	edit := tgbotapi.NewEditMessageReplyMarkup(message.Chat.ID, message.MessageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := b.api.Request(edit); err != nil {
		log.Printf("Error clearing keyboard: %v", err)
	}
}

// cardArgument reads an optional card id following a command, e.g. "/edit 12"
func cardArgument(message *tgbotapi.Message) (int64, bool) {
	arg := strings.TrimPrefix(strings.TrimSpace(message.CommandArguments()), "#")
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return "@" + user.UserName
	}
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}
