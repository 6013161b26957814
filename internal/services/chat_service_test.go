package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatRepo struct {
	sessions map[uuid.UUID]*models.ChatSession
	saves    int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{sessions: map[uuid.UUID]*models.ChatSession{}}
}

func (f *fakeChatRepo) GetLatestSession(userID uuid.UUID) (*models.ChatSession, error) {
	var latest *models.ChatSession
	for _, s := range f.sessions {
		if s.UserID != userID {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (f *fakeChatRepo) GetSessionsByUserID(userID uuid.UUID) ([]models.ChatSession, error) {
	var out []models.ChatSession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) CreateSession(session *models.ChatSession) error {
	session.CreatedAt = time.Now()
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeChatRepo) SaveSession(session *models.ChatSession) error {
	f.saves++
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeChatRepo) DeleteSessionsByUserID(userID uuid.UUID) error {
	for id, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, id)
		}
	}
	return nil
}

type fakeChatGateway struct {
	replies []string
	err     error
	calls   int
	got     []string
}

func (f *fakeChatGateway) Reply(ctx context.Context, message string) (string, error) {
	f.calls++
	f.got = append(f.got, message)
	if f.err != nil {
		return "", f.err
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func TestSendMessageCreatesSessionAndAppendsTurns(t *testing.T) {
	repo := newFakeChatRepo()
	gateway := &fakeChatGateway{replies: []string{"Keep feeders clean."}}
	svc := NewChatService(repo, gateway)

	userID := uuid.New()
	resp, err := svc.SendMessage(context.Background(), userID, "How do I prevent coccidiosis?")
	require.NoError(t, err)

	assert.Equal(t, "How do I prevent coccidiosis?", resp.UserMessage)
	assert.Equal(t, "Keep feeders clean.", resp.BotResponse)

	session := repo.sessions[resp.SessionID]
	require.NotNil(t, session)
	require.Len(t, session.Conversation, 2)
	assert.Equal(t, models.RoleUser, session.Conversation[0].Role)
	assert.Equal(t, models.RoleAssistant, session.Conversation[1].Role)
	assert.Equal(t, 1, repo.saves)
}

func TestSendMessageKeepsTranscriptOrder(t *testing.T) {
	repo := newFakeChatRepo()
	gateway := &fakeChatGateway{replies: []string{"B", "D"}}
	svc := NewChatService(repo, gateway)

	userID := uuid.New()
	first, err := svc.SendMessage(context.Background(), userID, "A")
	require.NoError(t, err)
	second, err := svc.SendMessage(context.Background(), userID, "C")
	require.NoError(t, err)

	// Both exchanges land on the same session, in insertion order.
	assert.Equal(t, first.SessionID, second.SessionID)
	session := repo.sessions[first.SessionID]
	require.Len(t, session.Conversation, 4)
	var got []string
	for _, turn := range session.Conversation {
		got = append(got, turn.Message)
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, got)
}

func TestSendMessageEmptyRejected(t *testing.T) {
	svc := NewChatService(newFakeChatRepo(), &fakeChatGateway{})

	_, err := svc.SendMessage(context.Background(), uuid.New(), "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSendMessageStripsMarkup(t *testing.T) {
	repo := newFakeChatRepo()
	gateway := &fakeChatGateway{replies: []string{"ok"}}
	svc := NewChatService(repo, gateway)

	resp, err := svc.SendMessage(context.Background(), uuid.New(),
		`<script>alert(1)</script>my hens are sneezing`)
	require.NoError(t, err)

	assert.Equal(t, "my hens are sneezing", resp.UserMessage)
	assert.Equal(t, []string{"my hens are sneezing"}, gateway.got)
}

func TestSendMessageMarkupOnlyRejected(t *testing.T) {
	svc := NewChatService(newFakeChatRepo(), &fakeChatGateway{})

	_, err := svc.SendMessage(context.Background(), uuid.New(), "<b></b>")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSendMessageGatewayFailureKeepsUserTurn(t *testing.T) {
	repo := newFakeChatRepo()
	gateway := &fakeChatGateway{err: errors.New("quota exceeded")}
	svc := NewChatService(repo, gateway)

	userID := uuid.New()
	_, err := svc.SendMessage(context.Background(), userID, "Is my hen sick?")
	assert.ErrorIs(t, err, ErrUpstreamService)

	session, getErr := repo.GetLatestSession(userID)
	require.NoError(t, getErr)
	require.Len(t, session.Conversation, 1)
	assert.Equal(t, models.RoleUser, session.Conversation[0].Role)
	assert.Equal(t, "Is my hen sick?", session.Conversation[0].Message)
}

func TestClearHistory(t *testing.T) {
	repo := newFakeChatRepo()
	gateway := &fakeChatGateway{replies: []string{"ok"}}
	svc := NewChatService(repo, gateway)

	userID := uuid.New()
	_, err := svc.SendMessage(context.Background(), userID, "hello")
	require.NoError(t, err)

	require.NoError(t, svc.ClearHistory(context.Background(), userID))

	sessions, err := svc.GetHistory(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
