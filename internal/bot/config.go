package bot

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Direction new quiz sessions start with
	DefaultDirection string
	// How many past messages are replayed to the tutor
	TutorHistoryLimit int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		DefaultDirection:  "source_to_target",
		TutorHistoryLimit: 20,
	}
}
