package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"task-tracker/internal/model"
)

// TokenRepository issues and resolves opaque bearer tokens.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// GetOrCreate returns the user's token, minting one on first use. The unique
// index on user_id makes the operation idempotent under concurrent logins:
// whoever loses the insert race re-reads the winner's row.
func (r *TokenRepository) GetOrCreate(ctx context.Context, userID uint) (*model.Token, error) {
	db := r.db.WithContext(ctx)

	var token model.Token
	err := db.Where("user_id = ?", userID).First(&token).Error
	switch {
	case err == nil:
		return &token, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		key, keyErr := generateKey()
		if keyErr != nil {
			return nil, keyErr
		}
		token = model.Token{Key: key, UserID: userID}
		createErr := db.Create(&token).Error
		if createErr == nil {
			return &token, nil
		}
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			if err := db.Where("user_id = ?", userID).First(&token).Error; err != nil {
				return nil, fmt.Errorf("reread token: %w", err)
			}
			return &token, nil
		}
		return nil, fmt.Errorf("create token: %w", createErr)
	default:
		return nil, fmt.Errorf("find token: %w", err)
	}
}

// FindByKey resolves a presented bearer key to its owning user.
func (r *TokenRepository) FindByKey(ctx context.Context, key string) (*model.Token, error) {
	var token model.Token
	if err := r.db.WithContext(ctx).Preload("User").Where("key = ?", key).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// generateKey returns 20 random bytes as 40 lowercase hex characters.
func generateKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
