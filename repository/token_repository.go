// file: repository/token_repository.go

package repository

import (
	"context"
	"database/sql"
	"shop-api/logger"
	"shop-api/model"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh token database operations.
// Every record is a single row, so inserts and deletes for one session never
// race against another session of the same user.
type ITokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	CreateTx(tx *sql.Tx, token *model.RefreshToken) error
	DeleteByIDTx(tx *sql.Tx, id int) (int64, error)
	DeleteByUserID(ctx context.Context, userID int) error
	DeleteExpiredByUserID(ctx context.Context, userID int) error
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Create inserts a new refresh token record into the database.
func (r *TokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})
	log.Info("Executing query to create a new refresh token")

	query := `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, token.UserID, token.TokenHash, token.ExpiresAt).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// GetByTokenHash retrieves a refresh token by its hashed value.
func (r *TokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	token := &model.RefreshToken{}
	query := `SELECT id, user_id, token_hash, expires_at, created_at FROM refresh_tokens WHERE token_hash = $1`
	err := r.DB.QueryRowContext(ctx, query, tokenHash).
		Scan(&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get refresh token by hash query")
		}
		return nil, err // Return sql.ErrNoRows if not found
	}
	return token, nil
}

// CreateTx inserts a refresh token inside an existing transaction, used by
// the rotation flow so the old and new tokens swap atomically.
func (r *TokenRepository) CreateTx(tx *sql.Tx, token *model.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES ($1, $2, $3) RETURNING id, created_at`
	return tx.QueryRow(query, token.UserID, token.TokenHash, token.ExpiresAt).Scan(&token.ID, &token.CreatedAt)
}

// DeleteByIDTx removes a single token row inside a transaction and reports
// how many rows were removed. Zero rows means another request already
// consumed the token.
func (r *TokenRepository) DeleteByIDTx(tx *sql.Tx, id int) (int64, error) {
	res, err := tx.Exec(`DELETE FROM refresh_tokens WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByUserID deletes all refresh tokens for a specific user.
// This is used for logging out from all sessions.
func (r *TokenRepository) DeleteByUserID(ctx context.Context, userID int) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to delete all refresh tokens for a user")

	_, err := r.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete refresh tokens query")
		return err
	}
	return nil
}

// DeleteExpiredByUserID lazily purges records past their expiry. Expired rows
// are never honored regardless of whether this purge has run yet.
func (r *TokenRepository) DeleteExpiredByUserID(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE user_id = $1 AND expires_at <= now()`, userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to purge expired refresh tokens")
		return err
	}
	return nil
}
