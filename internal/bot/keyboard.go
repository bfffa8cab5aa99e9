package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/leitnerbot/pkg/models"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// MainMenuButtons returns the buttons for the main menu
func MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🎯 Review", CallbackData: callbackData{Action: actionReview}.String()},
			{Text: "📦 Boxes", CallbackData: callbackData{Action: actionBoxes}.String()},
		},
	}
}

// reviewButtons returns the grading keyboard shown under a review prompt
func reviewButtons(card models.Flashcard) [][]MenuButton {
	return [][]MenuButton{
		{{Text: "👀 Show answer", CallbackData: callbackData{Action: actionReveal, CardID: card.ID}.String()}},
		{
			{Text: "✅ Correct", CallbackData: outcomeCallback(card.ID, models.Correct)},
			{Text: "❌ Incorrect", CallbackData: outcomeCallback(card.ID, models.Incorrect)},
		},
	}
}

// cardButtons lists one button per card for the given action (edit or delete)
func cardButtons(cards []models.Flashcard, action, icon string) [][]MenuButton {
	rows := make([][]MenuButton, 0, len(cards)+1)
	for i, card := range cards {
		if i == maxListedCards {
			break
		}
		rows = append(rows, []MenuButton{{
			Text:         fmt.Sprintf("%s #%d %s", icon, card.ID, truncate(card.Question, 40)),
			CallbackData: callbackData{Action: action, CardID: card.ID}.String(),
		}})
	}
	rows = append(rows, []MenuButton{{Text: "⬅️ Cancel", CallbackData: callbackData{Action: actionCancel}.String()}})
	return rows
}
