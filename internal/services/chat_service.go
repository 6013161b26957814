package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// ChatGateway produces an assistant reply for one user message.
type ChatGateway interface {
	Reply(ctx context.Context, message string) (string, error)
}

type IChatService interface {
	SendMessage(ctx context.Context, userID uuid.UUID, message string) (*models.SendMessageResponse, error)
	GetHistory(ctx context.Context, userID uuid.UUID) ([]models.ChatSession, error)
	ClearHistory(ctx context.Context, userID uuid.UUID) error
}

type ChatService struct {
	chatRepo  repository.IChatRepository
	gateway   ChatGateway
	sanitizer *bluemonday.Policy
}

func NewChatService(chatRepo repository.IChatRepository, gateway ChatGateway) IChatService {
	return &ChatService{
		chatRepo:  chatRepo,
		gateway:   gateway,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// SendMessage appends the user turn to the latest session, asks the assistant,
// then persists the exchange. When the assistant fails the user turn is still
// kept, unanswered, so the farmer sees what they asked.
func (s *ChatService) SendMessage(ctx context.Context, userID uuid.UUID, message string) (*models.SendMessageResponse, error) {
	cleaned := strings.TrimSpace(s.sanitizer.Sanitize(message))
	if cleaned == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrValidation)
	}

	session, err := s.chatRepo.GetLatestSession(userID)
	if errors.Is(err, repository.ErrNotFound) {
		session = &models.ChatSession{
			ID:           uuid.New(),
			UserID:       userID,
			Conversation: models.Transcript{},
			SessionStart: time.Now(),
		}
		if err := s.chatRepo.CreateSession(session); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	now := time.Now()
	session.Conversation = append(session.Conversation, models.ChatTurn{
		Role:      models.RoleUser,
		Message:   cleaned,
		Timestamp: now,
	})

	reply, err := s.gateway.Reply(ctx, cleaned)
	if err != nil {
		slog.Error("chat reply failed", "user_id", userID, "error", err)
		if saveErr := s.saveWithDuration(session, now); saveErr != nil {
			slog.Error("failed to save unanswered chat turn", "session_id", session.ID, "error", saveErr)
		}
		return nil, fmt.Errorf("%w: the assistant is currently unavailable", ErrUpstreamService)
	}

	replyAt := time.Now()
	session.Conversation = append(session.Conversation, models.ChatTurn{
		Role:      models.RoleAssistant,
		Message:   reply,
		Timestamp: replyAt,
	})

	if err := s.saveWithDuration(session, replyAt); err != nil {
		return nil, err
	}

	return &models.SendMessageResponse{
		UserMessage: cleaned,
		BotResponse: reply,
		SessionID:   session.ID,
	}, nil
}

// saveWithDuration writes the whole transcript in one update and refreshes the
// session end marker.
func (s *ChatService) saveWithDuration(session *models.ChatSession, end time.Time) error {
	session.SessionEnd = &end
	session.DurationSeconds = int(math.Round(end.Sub(session.SessionStart).Seconds()))
	return s.chatRepo.SaveSession(session)
}

// GetHistory returns sessions newest first. Turns inside each session keep
// their insertion order.
func (s *ChatService) GetHistory(ctx context.Context, userID uuid.UUID) ([]models.ChatSession, error) {
	return s.chatRepo.GetSessionsByUserID(userID)
}

func (s *ChatService) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	if err := s.chatRepo.DeleteSessionsByUserID(userID); err != nil {
		return err
	}
	slog.Info("cleared chat history", "user_id", userID)
	return nil
}
