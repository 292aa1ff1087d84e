package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

// Session is what a successful authentication hands back to the client.
type Session struct {
	Token    string
	UserID   uint
	Username string
}

// AuthService owns the credential contract: registration, login and bearer
// token resolution. Passwords only ever exist here as bcrypt hashes.
type AuthService struct {
	users      *repository.UserRepository
	tokens     *repository.TokenRepository
	bcryptCost int
}

func NewAuthService(users *repository.UserRepository, tokens *repository.TokenRepository, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a new identity and issues its token. Nothing is persisted
// on any failure path.
func (s *AuthService) Register(ctx context.Context, username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{Username: username, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, &user); err != nil {
		// A concurrent registration can slip past the existence check; the
		// unique index catches it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return s.issueSession(ctx, &user)
}

// Login verifies credentials and returns the user's token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

// Authenticate resolves a presented bearer key to its user.
func (s *AuthService) Authenticate(ctx context.Context, key string) (*model.User, error) {
	token, err := s.tokens.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return &token.User, nil
}

func (s *AuthService) issueSession(ctx context.Context, user *model.User) (*Session, error) {
	token, err := s.tokens.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token.Key, UserID: user.ID, Username: user.Username}, nil
}
