package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/repository"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	RegisterNewUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type UserService struct {
	userRepo       repository.IUserRepository
	jwtService     *JWTService
	sessionService SessionStore
}

func NewUserService(userRepo repository.IUserRepository, jwtService *JWTService, sessionService SessionStore) IUserService {
	return &UserService{
		userRepo:       userRepo,
		jwtService:     jwtService,
		sessionService: sessionService,
	}
}

func (s *UserService) RegisterNewUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:                    uuid.New(),
		Fullname:              strings.TrimSpace(req.Fullname),
		Email:                 strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:           strings.TrimSpace(req.PhoneNumber),
		ConsentToTermsDataUse: req.ConsentToTermsDataUse,
		PreferredLanguage:     req.PreferredLanguage,
		Country:               req.Country,
		PasswordHash:          string(hashed),
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrAlreadyExists)
		}
		return nil, err
	}

	slog.Info("registered new user", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.userRepo.GetUserByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.sessionService.StoreSession(ctx, user.ID, token); err != nil {
		return nil, err
	}

	slog.Info("user logged in", "user_id", user.ID)
	return &models.LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    user.Summary(),
	}, nil
}

func (s *UserService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.sessionService.InvalidateSession(ctx, userID)
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	return user, err
}

func validateRegistration(req *models.RegisterRequest) error {
	if strings.TrimSpace(req.Fullname) == "" {
		return fmt.Errorf("%w: fullname is required", ErrValidation)
	}
	if ok, _ := utils.ValidateEmail(strings.TrimSpace(req.Email)); !ok {
		return fmt.Errorf("%w: email format incorrect", ErrValidation)
	}
	if ok, _ := utils.ValidatePhone(strings.TrimSpace(req.PhoneNumber)); !ok {
		return fmt.Errorf("%w: phone format incorrect", ErrValidation)
	}
	if len(req.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if !req.ConsentToTermsDataUse {
		return fmt.Errorf("%w: consent to terms and data use is required", ErrValidation)
	}
	return nil
}
