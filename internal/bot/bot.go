// Package bot is the Telegram front end of the flashcard scheduler.
// It renders coordinator results as chat messages and holds no
// scheduling state of its own.
package bot

import (
	"context"
	"fmt"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/leitnerbot/internal/excel"
	"github.com/example/leitnerbot/internal/review"
)

// API is the part of tgbotapi.BotAPI the bot uses
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	GetFileDirectURL(fileID string) (string, error)
}

// Config holds the bot settings
type Config struct {
	AdminUserIDs    []int64
	PollTimeout     int
	ReminderMessage string
}

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

type callbackHandler func(ctx context.Context, callback *tgbotapi.CallbackQuery, data callbackData) error

// Bot represents the Telegram bot application
type Bot struct {
	api          API
	coordinator  *review.Coordinator
	importer     *excel.Importer
	httpClient   *http.Client
	config       Config
	adminUserIDs map[int64]bool
	commands     map[string]commandHandler
	adminOnly    map[string]bool
	callbacks    map[string]callbackHandler
}

// NewAPI connects to Telegram with the given token
func NewAPI(token string, debug bool) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	api.Debug = debug
	log.Printf("Authorized on account %s", api.Self.UserName)
	return api, nil
}

// New creates a new bot instance
func New(api API, coordinator *review.Coordinator, cfg Config) *Bot {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 60
	}
	if cfg.ReminderMessage == "" {
		cfg.ReminderMessage = "Time to review your flashcards! Use /review to start."
	}

	b := &Bot{
		api:          api,
		coordinator:  coordinator,
		importer:     excel.NewImporter(coordinator, excel.DefaultImportConfig()),
		httpClient:   http.DefaultClient,
		config:       cfg,
		adminUserIDs: make(map[int64]bool),
	}
	for _, id := range cfg.AdminUserIDs {
		b.adminUserIDs[id] = true
	}

	b.commands = map[string]commandHandler{
		"start":       b.handleStart,
		"help":        b.handleHelp,
		"review":      b.handleReview,
		"reminder":    b.handleReminder,
		"box":         b.handleBox,
		"cards":       b.handleCards,
		"edit":        b.handleEdit,
		"delete":      b.handleDelete,
		"cancel":      b.handleCancel,
		"cancel_user": b.handleCancelUser,
	}
	b.adminOnly = map[string]bool{
		"cancel_user": true,
	}
	b.callbacks = map[string]callbackHandler{
		actionReview:  b.onReview,
		actionBoxes:   b.onBoxes,
		actionOutcome: b.onOutcome,
		actionReveal:  b.onReveal,
		actionEdit:    b.onEdit,
		actionDelete:  b.onDelete,
		actionCancel:  b.onCancel,
	}
	return b
}

// Start receives updates until ctx is cancelled. Each update is handled
// in its own goroutine; the coordinator serializes work per user.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.PollTimeout

	updates := b.api.GetUpdatesChan(updateConfig)
	log.Println("Bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// Stop stops receiving updates
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	log.Println("Bot stopped")
}

// SendReminder implements scheduler.Notifier
func (b *Bot) SendReminder(userID int64) error {
	msg := tgbotapi.NewMessage(userID, b.config.ReminderMessage)
	msg.ReplyMarkup = createKeyboard(MainMenuButtons())
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

// isAdmin checks if a user is an admin
func (b *Bot) isAdmin(userID int64) bool {
	return b.adminUserIDs[userID]
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil && update.Message.From != nil:
		err = b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		err = b.handleCallbackQuery(ctx, update.CallbackQuery)
	default:
		return
	}
	if err != nil {
		log.Printf("Error handling update %d: %v", update.UpdateID, err)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	if message.IsCommand() {
		return b.handleCommand(ctx, message)
	}
	if message.Document != nil && message.Caption == "" {
		return b.handleDocument(ctx, message)
	}
	if hasMedia(message) {
		return b.handleMediaCard(ctx, message)
	}
	if message.Text != "" {
		return b.handleText(ctx, message)
	}
	return b.reply(message.Chat.ID, "Send me text, or media with a caption, to create a card. Use /help for details.")
}

// handleCommand dispatches through the command table
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	command := message.Command()
	handler, ok := b.commands[command]
	if !ok {
		return b.reply(message.Chat.ID, "Unknown command. Use /help to see what I can do.")
	}
	if b.adminOnly[command] && !b.isAdmin(message.From.ID) {
		return b.reply(message.Chat.ID, "This command is only available for administrators.")
	}
	return handler(ctx, message)
}

// handleCallbackQuery dispatches through the callback table
func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	data, err := parseCallback(callback.Data)
	if err != nil {
		b.answerCallback(callback, "")
		return err
	}
	handler, ok := b.callbacks[data.Action]
	if !ok {
		b.answerCallback(callback, "")
		return fmt.Errorf("unknown callback action %q", data.Action)
	}
	return handler(ctx, callback, data)
}

func (b *Bot) reply(chatID int64, text string) error {
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// answerCallback stops the client's loading indicator, optionally with a toast
func (b *Bot) answerCallback(callback *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, text)); err != nil {
		log.Printf("Error answering callback %s: %v", callback.ID, err)
	}
}

func (b *Bot) notifyAdmins(text string) {
	for id := range b.adminUserIDs {
		if err := b.reply(id, text); err != nil {
			log.Printf("Error notifying admin %d: %v", id, err)
		}
	}
}

func hasMedia(message *tgbotapi.Message) bool {
	return len(message.Photo) > 0 || message.Video != nil || message.Document != nil ||
		message.Audio != nil || message.Voice != nil || message.Animation != nil
}
