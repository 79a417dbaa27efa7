package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/frasebot/pkg/models"
)

// ChatHistoryRepository handles database operations for tutor chat
// history
type ChatHistoryRepository struct{}

// NewChatHistoryRepository creates a new repository instance
func NewChatHistoryRepository() *ChatHistoryRepository {
	return &ChatHistoryRepository{}
}

// Save stores one chat message, assigning an id when missing
func (r *ChatHistoryRepository) Save(ctx context.Context, msg *models.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	_, err := DB.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, msg.ID, msg.SessionID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save chat message: %v", err)
	}
	return nil
}

// History returns all messages of a chat session in chronological
// order
func (r *ChatHistoryRepository) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := DB.SelectContext(ctx, &messages, `
		SELECT id, session_id, role, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat history: %v", err)
	}
	return messages, nil
}
