package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/frasebot/internal/database"
)

// Default window for sending reminders
const (
	DefaultReminderStartHour = 9
	DefaultReminderEndHour   = 21
)

// Notifier interface for sending reminders
type Notifier interface {
	SendStreakReminder(streak int) error
}

// Scheduler manages scheduled tasks for the application. Its single
// job nudges the learner when the day is passing without a completed
// session and an active streak is about to break.
type Scheduler struct {
	scheduler    *gocron.Scheduler
	notifier     Notifier
	progressRepo *database.ProgressRepository

	// date of the last reminder sent, so one nudge per day is enough
	lastReminded string
}

// New creates a new scheduler instance
func New(notifier Notifier) *Scheduler {
	return &Scheduler{
		scheduler:    gocron.NewScheduler(time.Local),
		notifier:     notifier,
		progressRepo: database.NewProgressRepository(),
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkStreakReminder)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkStreakReminder sends a reminder when today has no recorded
// completion yet and the streak would otherwise reset tomorrow
func (s *Scheduler) checkStreakReminder() {
	now := time.Now()
	currentHour := now.Hour()

	startHour := hourFromEnv("REMINDER_START_HOUR", DefaultReminderStartHour)
	endHour := hourFromEnv("REMINDER_END_HOUR", DefaultReminderEndHour)

	if currentHour < startHour || currentHour > endHour {
		return
	}

	today := now.Format("2006-01-02")
	if s.lastReminded == today {
		return
	}

	streak, err := s.progressRepo.CurrentStreak(context.Background())
	if err != nil {
		log.Printf("Error reading streak for reminder: %v", err)
		return
	}

	// Nothing to protect, or already practiced today
	if streak.Current == 0 || streak.LastCompleted.Format("2006-01-02") == today {
		return
	}

	if err := s.notifier.SendStreakReminder(streak.Current); err != nil {
		log.Printf("Error sending streak reminder: %v", err)
		return
	}
	s.lastReminded = today
}

// hourFromEnv reads an hour override from the environment
func hourFromEnv(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return def
}
