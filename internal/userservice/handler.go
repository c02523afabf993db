package userservice

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/sushihentaime/quillpost/internal/common"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnknownUser        = errors.New("user no longer exists")
)

func NewUserService(db *sql.DB, tokens *TokenService, mb common.MessageProducer, logger Logger) *UserService {
	if mb == nil {
		mb = common.DiscardProducer
	}

	return &UserService{
		m:      newUserModel(db),
		tokens: tokens,
		mb:     mb,
		logger: logger,
	}
}

// Tokens exposes the token service used to sign session cookies.
func (s *UserService) Tokens() *TokenService {
	return s.tokens
}

// RegisterUser creates a user account, signs a session token for it and
// publishes a user.registered event.
func (s *UserService) RegisterUser(ctx context.Context, username, email, password string) (*User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	v := common.NewValidator()
	validateUsername(v, username)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, "", v.ValidationError()
	}

	u := User{
		ID:       common.NewID(),
		Username: username,
		Email:    email,
	}

	// sign before inserting so a misconfigured secret leaves no account behind
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}

	if err := u.Password.set(password); err != nil {
		return nil, "", err
	}

	if err := s.m.insert(ctx, &u); err != nil {
		return nil, "", err
	}

	event := common.UserRegisteredEvent{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
	if err := common.PublishEvent(ctx, s.mb, common.UserRegisteredKey, event); err != nil {
		s.logError("could not publish user registered event", err, u.ID)
	}

	return &u, token, nil
}

// LoginUser checks the credentials and returns the user with a fresh session token.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*User, string, error) {
	email = strings.TrimSpace(email)

	v := common.NewValidator()
	validateCredentials(v, email, password)
	if !v.Valid() {
		return nil, "", v.ValidationError()
	}

	user, err := s.m.getByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, "", ErrInvalidCredentials
		default:
			return nil, "", err
		}
	}

	ok, err := user.Password.matches(password)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Authenticate resolves a session token to the user it was issued for.
func (s *UserService) Authenticate(ctx context.Context, token string) (*User, *Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.m.getByID(ctx, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, nil, ErrUnknownUser
		default:
			return nil, nil, err
		}
	}

	return user, claims, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.m.getByID(ctx, id)
}

func (s *UserService) logError(msg string, err error, userID string) {
	if s.logger == nil {
		return
	}
	s.logger.Error(msg, slog.String("error", err.Error()), slog.String("user_id", userID))
}
