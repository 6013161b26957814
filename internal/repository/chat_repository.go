package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type IChatRepository interface {
	GetLatestSession(userID uuid.UUID) (*models.ChatSession, error)
	GetSessionsByUserID(userID uuid.UUID) ([]models.ChatSession, error)
	CreateSession(session *models.ChatSession) error
	SaveSession(session *models.ChatSession) error
	DeleteSessionsByUserID(userID uuid.UUID) error
}

type ChatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) IChatRepository {
	return &ChatRepository{
		db: db,
	}
}

func (r *ChatRepository) GetLatestSession(userID uuid.UUID) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.db.Get(&session, `
        SELECT * FROM chat_sessions
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT 1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("Error fetching latest chat session for user %s: %v", userID, err)
		return nil, err
	}
	return &session, nil
}

func (r *ChatRepository) GetSessionsByUserID(userID uuid.UUID) ([]models.ChatSession, error) {
	sessions := []models.ChatSession{}
	err := r.db.Select(&sessions, `
        SELECT * FROM chat_sessions
        WHERE user_id = $1
        ORDER BY created_at DESC`, userID)
	if err != nil {
		log.Printf("Error fetching chat sessions for user %s: %v", userID, err)
		return nil, err
	}
	return sessions, nil
}

func (r *ChatRepository) CreateSession(session *models.ChatSession) error {
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	query := `
        INSERT INTO chat_sessions (
            id,
            user_id,
            conversation,
            session_start,
            session_end,
            duration_seconds,
            created_at,
            updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	err := utils.ExecWithCheck(
		r.db,
		query,
		utils.ExecInsert,
		session.ID,
		session.UserID,
		session.Conversation,
		session.SessionStart,
		session.SessionEnd,
		session.DurationSeconds,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		log.Printf("Error creating chat session: %s", err.Error())
		return fmt.Errorf("failed to create chat session: %w", err)
	}

	return nil
}

// SaveSession persists the full transcript in one write, covering both turns
// of an exchange when the assistant reply succeeded.
func (r *ChatRepository) SaveSession(session *models.ChatSession) error {
	session.UpdatedAt = time.Now()

	query := `
        UPDATE chat_sessions SET
            conversation = $2,
            session_end = $3,
            duration_seconds = $4,
            updated_at = $5
        WHERE id = $1
    `

	err := utils.ExecWithCheck(
		r.db,
		query,
		utils.ExecUpdate,
		session.ID,
		session.Conversation,
		session.SessionEnd,
		session.DurationSeconds,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save chat session: %w", err)
	}
	return nil
}

func (r *ChatRepository) DeleteSessionsByUserID(userID uuid.UUID) error {
	// Unconditional wipe: deleting zero sessions is not an error.
	if _, err := r.db.Exec("DELETE FROM chat_sessions WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}
	return nil
}
