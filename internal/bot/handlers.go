package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/frasebot/internal/excel"
	"github.com/example/frasebot/internal/session"
	"github.com/example/frasebot/pkg/models"
)

// Constants for callback data
const (
	callbackPlanDaily   = "plan_daily"
	callbackPlanWeekly  = "plan_weekly"
	callbackPlanMonthly = "plan_monthly"
	callbackDirForward  = "dir_source_target"
	callbackDirReverse  = "dir_target_source"
)

// handleUpdate routes one Telegram update
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.Chat == nil {
		return
	}

	message := update.Message
	chatID := message.Chat.ID
	st := b.state(chatID)

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	if message.Document != nil {
		b.handleDocument(ctx, message)
		return
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}

	switch st.mode {
	case modeChat:
		b.handleTutorMessage(ctx, chatID, text)
	default:
		b.handleAnswer(ctx, chatID, text)
	}
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case "plan":
		b.handlePlan(chatID)
	case "restart":
		b.handleRestart(ctx, chatID)
	case "direction":
		b.handleDirection(chatID)
	case "chat":
		b.handleChatMode(chatID)
	case "quiz":
		b.handleQuizMode(ctx, chatID)
	case "streak":
		b.handleStreak(ctx, chatID)
	case "stats":
		b.handleStats(ctx, chatID)
	case "import":
		b.handleImport(chatID, message.From)
	default:
		b.sendText(chatID, "Unknown command. Send /help to see what I can do.")
	}
}

func (b *Bot) handleStart(chatID int64) {
	text := "👋 Welcome to frasebot!\n\n" +
		"I help you practice Portuguese sentences.\n\n" +
		"🔹 How it works:\n" +
		"1. Pick a study plan with /plan\n" +
		"2. Translate the sentences I send you\n" +
		"3. Finish the plan to keep your daily streak alive\n\n" +
		"You can also talk to the AI tutor with /chat."
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(b.planButtons())
	b.sendMessage(msg)
}

func (b *Bot) handleHelp(chatID int64) {
	text := "📖 Commands\n\n" +
		"/plan - Choose a study plan and start a session\n" +
		"/restart - Restart the current plan from scratch\n" +
		"/direction - Switch translation direction\n" +
		"/chat - Talk to the AI tutor\n" +
		"/quiz - Back to practicing\n" +
		"/streak - Show your daily streak\n" +
		"/stats - Show learning statistics\n\n" +
		"During a session, just type your translation. Small typos and " +
		"missing accents are fine."
	b.sendText(chatID, text)
}

func (b *Bot) handlePlan(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Choose your study plan:")
	msg.ReplyMarkup = createKeyboard(b.planButtons())
	b.sendMessage(msg)
}

func (b *Bot) planButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "☀️ Daily (3 phrases)", CallbackData: callbackPlanDaily}},
		{{Text: "📅 Weekly (10 phrases)", CallbackData: callbackPlanWeekly}},
		{{Text: "🗓 Monthly (20 phrases)", CallbackData: callbackPlanMonthly}},
	}
}

func (b *Bot) handleRestart(ctx context.Context, chatID int64) {
	st := b.state(chatID)
	if st.engine.Plan() == "" {
		b.sendText(chatID, "No plan chosen yet. Pick one with /plan.")
		return
	}

	st.engine.Restart()
	st.mode = modeQuiz
	b.sendText(chatID, "🔄 Session restarted.")
	b.askCurrent(chatID)
}

func (b *Bot) handleDirection(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Which direction do you want to practice?")
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "🇬🇧 ➜ 🇧🇷 English to Portuguese", CallbackData: callbackDirForward}},
		{{Text: "🇧🇷 ➜ 🇬🇧 Portuguese to English", CallbackData: callbackDirReverse}},
	})
	b.sendMessage(msg)
}

func (b *Bot) handleChatMode(chatID int64) {
	if !b.tutorEnabled {
		b.sendText(chatID, "The AI tutor is not configured on this bot.")
		return
	}

	st := b.state(chatID)
	st.mode = modeChat
	b.sendText(chatID, "💬 Tutor mode. Ask me anything about Portuguese! "+
		"Send /quiz to go back to practicing.")
}

func (b *Bot) handleQuizMode(ctx context.Context, chatID int64) {
	st := b.state(chatID)
	st.mode = modeQuiz

	if st.engine.State() == session.StateInProgress {
		b.askCurrent(chatID)
		return
	}
	b.handlePlan(chatID)
}

func (b *Bot) handleStreak(ctx context.Context, chatID int64) {
	streak, err := b.progressRepo.CurrentStreak(ctx)
	if err != nil {
		log.Printf("Error reading streak: %v", err)
		b.sendText(chatID, "Sorry, I couldn't read your streak right now.")
		return
	}

	if streak.Current == 0 {
		b.sendText(chatID, "No streak yet. Finish a session today to start one! 🔥")
		return
	}
	b.sendText(chatID, fmt.Sprintf("🔥 Current streak: %d day(s). Last completed: %s",
		streak.Current, streak.LastCompleted.Format("Jan 2, 2006")))
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	learned, err := b.progressRepo.LearnedCount(ctx)
	if err != nil {
		log.Printf("Error reading stats: %v", err)
		b.sendText(chatID, "Sorry, I couldn't read your statistics right now.")
		return
	}

	st := b.state(chatID)
	text := fmt.Sprintf("📊 Statistics\n\nPhrases learned: %d of %d in the catalog",
		learned, len(b.catalog))
	if st.engine.State() == session.StateInProgress {
		text += fmt.Sprintf("\nCurrent session: %d of %d done",
			st.engine.CompletedCount(), st.engine.Plan().Target())
	}
	b.sendText(chatID, text)
}

func (b *Bot) handleImport(chatID int64, from *tgbotapi.User) {
	if from == nil || !b.isAdmin(from.ID) {
		b.sendText(chatID, "Sorry, only admins can import phrases.")
		return
	}

	st := b.state(chatID)
	st.awaitingFile = true
	b.sendText(chatID, "📄 Send me an .xlsx or .csv file with English sentences "+
		"in column A and Portuguese sentences in column B (first row is a header).")
}

// handleCallbackQuery handles inline keyboard presses
func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	// Acknowledge the press so the client stops the spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}

	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	st := b.state(chatID)

	switch callback.Data {
	case callbackPlanDaily:
		b.startSession(chatID, session.PlanDaily)
	case callbackPlanWeekly:
		b.startSession(chatID, session.PlanWeekly)
	case callbackPlanMonthly:
		b.startSession(chatID, session.PlanMonthly)
	case callbackDirForward:
		st.direction = models.SourceToTarget
		b.sendText(chatID, "Direction set: English ➜ Portuguese.")
	case callbackDirReverse:
		st.direction = models.TargetToSource
		b.sendText(chatID, "Direction set: Portuguese ➜ English.")
	}
}

// startSession starts a fresh session under the chosen plan
func (b *Bot) startSession(chatID int64, plan session.Plan) {
	st := b.state(chatID)
	st.mode = modeQuiz
	st.engine.Start(plan)

	if st.engine.State() != session.StateInProgress {
		b.sendText(chatID, "The catalog is empty, nothing to practice yet.")
		return
	}

	b.sendText(chatID, fmt.Sprintf("Let's go! Answer %d phrases to finish the %s plan.",
		plan.Target(), plan))
	b.askCurrent(chatID)
}

// askCurrent shows the current prompt
func (b *Bot) askCurrent(chatID int64) {
	st := b.state(chatID)
	phrase, ok := st.engine.Current()
	if !ok {
		return
	}

	label := "Translate into Portuguese"
	if st.direction == models.TargetToSource {
		label = "Translate into English"
	}
	b.sendText(chatID, fmt.Sprintf("✏️ %s:\n\n%s", label, st.direction.Prompt(phrase)))
}

// handleAnswer submits one typed answer to the session engine
func (b *Bot) handleAnswer(ctx context.Context, chatID int64, text string) {
	st := b.state(chatID)

	// The engine rejects submissions with no active phrase; check the
	// state first and keep the conversation helpful.
	switch st.engine.State() {
	case session.StateInProgress:
	case session.StateFinished:
		b.sendText(chatID, "This session is already finished. 🎉 Start another with /plan or /restart.")
		return
	case session.StateExhausted:
		b.sendText(chatID, "There is nothing left to ask in this session. Use /restart or /plan.")
		return
	default:
		b.sendText(chatID, "No session running. Pick a plan with /plan.")
		return
	}

	phrase, _ := st.engine.Current()
	res, err := st.engine.Submit(ctx, text, st.direction)
	if err != nil {
		log.Printf("Error submitting answer for chat %d: %v", chatID, err)
		b.sendText(chatID, "Something went wrong saving your progress, please try again.")
		return
	}

	if !res.Correct {
		b.sendText(chatID, fmt.Sprintf("❌ Not quite. The expected answer is:\n\n%s", res.Expected))
		b.explainMistake(ctx, chatID, st, phrase, text)
		return
	}

	switch {
	case res.Finished:
		b.sendText(chatID, fmt.Sprintf("✅ Correct! 🎉 Session finished: %d of %d.", res.Completed, res.Target))
		b.reportStreak(ctx, chatID)
	case res.Exhausted:
		// The active set ran out before the target: the catalog is
		// smaller than the plan. Not a completion.
		b.sendText(chatID, fmt.Sprintf(
			"✅ Correct! But the catalog ran out of phrases for this plan (%d of %d). "+
				"Import more phrases or /restart.", res.Completed, res.Target))
	default:
		b.sendText(chatID, fmt.Sprintf("✅ Correct! (%d of %d)", res.Completed, res.Target))
		b.askCurrent(chatID)
	}
}

// explainMistake asks the tutor for a short note on what went wrong.
// Best effort: tutoring failures never block the quiz.
func (b *Bot) explainMistake(ctx context.Context, chatID int64, st *chatState, phrase models.Phrase, given string) {
	if !b.tutorEnabled || st.direction != models.SourceToTarget {
		return
	}

	feedback, err := b.tutor.ExplainMistake(ctx, phrase, given)
	if err != nil {
		log.Printf("Error getting mistake feedback: %v", err)
		return
	}
	b.sendText(chatID, "💡 "+feedback)
}

// reportStreak shows the updated streak after a finished session
func (b *Bot) reportStreak(ctx context.Context, chatID int64) {
	streak, err := b.progressRepo.CurrentStreak(ctx)
	if err != nil {
		log.Printf("Error reading streak: %v", err)
		return
	}
	b.sendText(chatID, fmt.Sprintf("🔥 Streak: %d day(s). See you tomorrow!", streak.Current))
}

// handleTutorMessage forwards one message to the AI tutor and stores
// both sides of the exchange
func (b *Bot) handleTutorMessage(ctx context.Context, chatID int64, text string) {
	st := b.state(chatID)

	history, err := b.chatRepo.History(ctx, st.tutorSession)
	if err != nil {
		log.Printf("Error loading chat history: %v", err)
		history = nil
	}
	if len(history) > b.config.TutorHistoryLimit {
		history = history[len(history)-b.config.TutorHistoryLimit:]
	}

	reply, err := b.tutor.Reply(ctx, history, text)
	if err != nil {
		log.Printf("Error from tutor: %v", err)
		b.sendText(chatID, "The tutor is unavailable right now, please try again later.")
		return
	}

	for _, msg := range []models.ChatMessage{
		{SessionID: st.tutorSession, Role: "user", Content: text},
		{SessionID: st.tutorSession, Role: "assistant", Content: reply},
	} {
		m := msg
		if err := b.chatRepo.Save(ctx, &m); err != nil {
			log.Printf("Error saving chat message: %v", err)
		}
	}

	b.sendText(chatID, reply)
}

// handleDocument ingests an uploaded catalog file for /import
func (b *Bot) handleDocument(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	st := b.state(chatID)

	if !st.awaitingFile {
		return
	}
	st.awaitingFile = false

	if message.From == nil || !b.isAdmin(message.From.ID) {
		return
	}

	path, err := b.downloadDocument(message.Document)
	if err != nil {
		log.Printf("Error downloading import file: %v", err)
		b.sendText(chatID, "I couldn't download that file, please try again.")
		return
	}
	defer os.Remove(path)

	config := excel.DefaultImportConfig()
	config.FilePath = path

	result, err := excel.ImportPhrases(ctx, config)
	if err != nil {
		log.Printf("Error importing phrases: %v", err)
		b.sendText(chatID, fmt.Sprintf("Import failed: %v", err))
		return
	}

	// New sessions should see the imported phrases
	catalog, err := b.phraseRepo.GetAll(ctx)
	if err != nil {
		log.Printf("Error reloading catalog: %v", err)
	} else {
		b.catalog = catalog
	}

	text := fmt.Sprintf("📥 Import finished: %d processed, %d added, %d skipped.",
		result.TotalProcessed, result.Created, result.Skipped)
	if len(result.Errors) > 0 {
		text += fmt.Sprintf("\n%d rows had problems, first: %s", len(result.Errors), result.Errors[0])
	}
	b.sendText(chatID, text)
}

// downloadDocument fetches an uploaded Telegram document to a temp file
func (b *Bot) downloadDocument(doc *tgbotapi.Document) (string, error) {
	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file URL: %v", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %v", err)
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp("", "frasebot-import-*"+filepath.Ext(doc.FileName))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %v", err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	return tmp.Name(), nil
}
