package services

import (
	"context"
	"testing"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
}

func (f *fakeUserRepo) GetUserByID(userID uuid.UUID) (*models.User, error) {
	u, ok := f.byID[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) CreateUser(user *models.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return repository.ErrDuplicate
	}
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) EmailExists(email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

type fakeSessionStore struct {
	tokens map[uuid.UUID]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{tokens: map[uuid.UUID]string{}}
}

func (f *fakeSessionStore) StoreSession(ctx context.Context, userID uuid.UUID, token string) error {
	f.tokens[userID] = token
	return nil
}

func (f *fakeSessionStore) ValidateSession(ctx context.Context, userID uuid.UUID, token string) error {
	if f.tokens[userID] != token {
		return assert.AnError
	}
	return nil
}

func (f *fakeSessionStore) InvalidateSession(ctx context.Context, userID uuid.UUID) error {
	delete(f.tokens, userID)
	return nil
}

func newTestUserService() (IUserService, *fakeUserRepo, *fakeSessionStore) {
	repo := newFakeUserRepo()
	sessions := newFakeSessionStore()
	jwtService := NewJWTService("test-secret", 48)
	return NewUserService(repo, jwtService, sessions), repo, sessions
}

func validRegistration() *models.RegisterRequest {
	return &models.RegisterRequest{
		Fullname:              "Wanjiku Farmer",
		Email:                 "wanjiku@example.com",
		PhoneNumber:           "+254712345678",
		Password:              "s3cret-pass",
		ConsentToTermsDataUse: true,
	}
}

func TestRegisterNewUser(t *testing.T) {
	svc, repo, _ := newTestUserService()

	user, err := svc.RegisterNewUser(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "wanjiku@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
	assert.Contains(t, repo.byEmail, "wanjiku@example.com")
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, repo, _ := newTestUserService()

	req := validRegistration()
	req.Email = "  Wanjiku@Example.COM "
	user, err := svc.RegisterNewUser(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "wanjiku@example.com", user.Email)
	assert.Contains(t, repo.byEmail, "wanjiku@example.com")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestUserService()

	_, err := svc.RegisterNewUser(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.RegisterNewUser(context.Background(), validRegistration())
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestUserService()

	tests := []struct {
		name   string
		mutate func(*models.RegisterRequest)
	}{
		{"missing fullname", func(r *models.RegisterRequest) { r.Fullname = " " }},
		{"bad email", func(r *models.RegisterRequest) { r.Email = "not-an-email" }},
		{"bad phone", func(r *models.RegisterRequest) { r.PhoneNumber = "12345" }},
		{"short password", func(r *models.RegisterRequest) { r.Password = "short" }},
		{"no consent", func(r *models.RegisterRequest) { r.ConsentToTermsDataUse = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegistration()
			tt.mutate(req)
			_, err := svc.RegisterNewUser(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLoginStoresSession(t *testing.T) {
	svc, _, sessions := newTestUserService()

	user, err := svc.RegisterNewUser(context.Background(), validRegistration())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "wanjiku@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, resp.Token, sessions.tokens[user.ID])
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestUserService()

	_, err := svc.RegisterNewUser(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email:    "wanjiku@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestUserService()

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _, sessions := newTestUserService()

	user, err := svc.RegisterNewUser(context.Background(), validRegistration())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "wanjiku@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, sessions.tokens[user.ID])

	require.NoError(t, svc.Logout(context.Background(), user.ID))
	assert.Error(t, sessions.ValidateSession(context.Background(), user.ID, resp.Token))
}

func TestJWTRoundTrip(t *testing.T) {
	jwtService := NewJWTService("test-secret", 48)
	userID := uuid.New()

	token, err := jwtService.GenerateToken(userID)
	require.NoError(t, err)

	claims, err := jwtService.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "poultry-service", claims.Issuer)
}

func TestJWTWrongSecretRejected(t *testing.T) {
	token, err := NewJWTService("secret-a", 48).GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", 48).VerifyToken(token)
	assert.Error(t, err)
}
