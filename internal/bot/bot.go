package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/example/frasebot/internal/ai"
	"github.com/example/frasebot/internal/database"
	"github.com/example/frasebot/internal/scheduler"
	"github.com/example/frasebot/internal/session"
	"github.com/example/frasebot/pkg/models"
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

// Chat modes
const (
	modeQuiz = "quiz"
	modeChat = "chat"
)

// chatState holds everything the bot tracks per Telegram chat
type chatState struct {
	engine        *session.Engine
	mode          string
	direction     models.Direction
	tutorSession  string
	awaitingFile  bool
}

// Bot represents the Telegram bot application
type Bot struct {
	api   *tgbotapi.BotAPI
	token string

	catalog      []models.Phrase
	phraseRepo   *database.PhraseRepository
	progressRepo *database.ProgressRepository
	chatRepo     *database.ChatHistoryRepository

	tutor        *ai.Tutor
	tutorEnabled bool

	sched            *scheduler.Scheduler
	schedulerEnabled bool
	reminderChatID   int64

	config       *BotConfig
	chats        map[int64]*chatState
	adminUserIDs map[int64]bool
}

// New creates a new bot instance. The phrase catalog is loaded once
// here and stays fixed for the lifetime of the process.
func New() (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	phraseRepo := database.NewPhraseRepository()
	catalog, err := phraseRepo.GetAll(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load phrase catalog: %w", err)
	}

	tutorEnabled := os.Getenv("OPENAI_API_KEY") != ""
	var tutor *ai.Tutor
	if tutorEnabled {
		tutor, err = ai.New()
		if err != nil {
			log.Printf("Warning: unable to initialize tutor client: %v", err)
			tutorEnabled = false
		}
	}

	b := &Bot{
		token:            token,
		catalog:          catalog,
		phraseRepo:       phraseRepo,
		progressRepo:     database.NewProgressRepository(),
		chatRepo:         database.NewChatHistoryRepository(),
		tutor:            tutor,
		tutorEnabled:     tutorEnabled,
		schedulerEnabled: os.Getenv("ENABLE_SCHEDULER") != "false",
		config:           DefaultConfig(),
		chats:            make(map[int64]*chatState),
		adminUserIDs:     make(map[int64]bool),
	}

	if idStr := os.Getenv("REMINDER_CHAT_ID"); idStr != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			log.Printf("Warning: invalid REMINDER_CHAT_ID: %s", idStr)
		} else {
			b.reminderChatID = id
		}
	}

	adminIDs := os.Getenv("ADMIN_USER_IDS")
	if adminIDs != "" {
		for _, idStr := range strings.Split(adminIDs, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
			if err != nil {
				log.Printf("Warning: invalid admin user ID: %s", idStr)
				continue
			}
			b.adminUserIDs[id] = true
		}
	}

	return b, nil
}

// Start connects to Telegram and processes updates until the context
// is canceled. Updates are handled one at a time: the session engine
// is a single-goroutine state machine.
func (b *Bot) Start(ctx context.Context) error {
	botAPI, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %v", err)
	}

	b.api = botAPI
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	if b.schedulerEnabled && b.reminderChatID != 0 {
		b.sched = scheduler.New(b)
		b.sched.Start()
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop shuts down the update loop and scheduled tasks
func (b *Bot) Stop(_ context.Context) error {
	if b.sched != nil {
		b.sched.Stop()
	}
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	return nil
}

// SendStreakReminder nudges the learner that today's session is still
// missing. Implements scheduler.Notifier.
func (b *Bot) SendStreakReminder(streak int) error {
	if b.reminderChatID == 0 {
		return nil
	}
	text := fmt.Sprintf("🔥 Your %d-day streak is waiting! Finish one session today to keep it going.", streak)
	msg := tgbotapi.NewMessage(b.reminderChatID, text)
	return b.sendMessage(msg)
}

// isAdmin reports whether the user may run admin commands
func (b *Bot) isAdmin(userID int64) bool {
	return b.adminUserIDs[userID]
}

// state returns the per-chat state, creating it on first contact
func (b *Bot) state(chatID int64) *chatState {
	st, ok := b.chats[chatID]
	if !ok {
		st = &chatState{
			engine:       session.New(b.catalog, b.progressRepo),
			mode:         modeQuiz,
			direction:    models.Direction(b.config.DefaultDirection),
			tutorSession: uuid.NewString(),
		}
		b.chats[chatID] = st
	}
	return st
}

// sendMessage sends a message and logs failures
func (b *Bot) sendMessage(msg tgbotapi.Chattable) error {
	_, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Error sending message: %v", err)
	}
	return err
}

// sendText is a shorthand for plain text replies
func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}
