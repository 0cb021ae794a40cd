package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"shop-api/config"
	"shop-api/logger"
	"shop-api/model"
	"shop-api/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, so a caller cannot enumerate registered accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken covers missing, expired and already-rotated
	// refresh tokens.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

const bcryptCost = 10

// dbTimeout bounds every persistence call made by the service layer.
const dbTimeout = 5 * time.Second

func getJwtKey() []byte {
	return []byte(config.AppConfig.JWT.SecretKey)
}

func accessTokenTTL() time.Duration {
	return time.Duration(config.AppConfig.JWT.AccessTokenTTLMinutes) * time.Minute
}

func refreshTokenTTL() time.Duration {
	return time.Duration(config.AppConfig.JWT.RefreshTokenTTLSeconds) * time.Second
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateJWT mints a short-lived access token. The role claim is a snapshot
// of the user's role at issuance.
func GenerateJWT(user *model.User) (string, error) {
	now := time.Now()
	claims := &model.AppClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(getJwtKey())
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// TokenPair is returned by login and refresh. The refresh token is the only
// place its plaintext ever appears.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService owns the credential and token lifecycle: login, refresh
// rotation and logout.
type AuthService struct {
	db        *sql.DB
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
}

func NewAuthService(db *sql.DB, userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository) *AuthService {
	return &AuthService{
		db:        db,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// Login verifies the credentials and, on success, issues an access token and
// durably appends one refresh token record. Existing sessions of the same
// user are left alone; concurrent sessions are allowed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := GenerateJWT(user)
	if err != nil {
		return nil, err
	}

	refreshPlain, refreshHash, err := newRefreshToken()
	if err != nil {
		return nil, err
	}

	record := &model.RefreshToken{
		UserID:    user.ID,
		TokenHash: refreshHash,
		ExpiresAt: time.Now().Add(refreshTokenTTL()),
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	// Expired records are purged lazily; a failure here never blocks login.
	if err := s.tokenRepo.DeleteExpiredByUserID(ctx, user.ID); err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Warn("Lazy refresh token purge failed")
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshPlain}, nil
}

// Refresh exchanges a valid, non-expired refresh token for a new token pair.
// Rotation is invalidate-and-replace: the old row is deleted and the new one
// inserted in a single transaction, so each refresh token is single-use even
// under concurrent exchange attempts.
func (s *AuthService) Refresh(ctx context.Context, refreshPlain string) (*TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	record, err := s.tokenRepo.GetByTokenHash(ctx, hashRefreshToken(refreshPlain))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	// A record exactly at the TTL ceiling is already expired.
	if time.Since(record.CreatedAt) >= refreshTokenTTL() || !record.ExpiresAt.After(time.Now()) {
		if err := s.tokenRepo.DeleteExpiredByUserID(ctx, record.UserID); err != nil {
			logger.Log.WithError(err).WithField("user_id", record.UserID).Warn("Lazy refresh token purge failed")
		}
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetUserByID(ctx, record.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	newPlain, newHash, err := newRefreshToken()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleted, err := s.tokenRepo.DeleteByIDTx(tx, record.ID)
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		// Another request already consumed this token.
		return nil, ErrInvalidRefreshToken
	}

	newRecord := &model.RefreshToken{
		UserID:    user.ID,
		TokenHash: newHash,
		ExpiresAt: time.Now().Add(refreshTokenTTL()),
	}
	if err := s.tokenRepo.CreateTx(tx, newRecord); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	accessToken, err := GenerateJWT(user)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("Refresh token rotated")

	return &TokenPair{AccessToken: accessToken, RefreshToken: newPlain}, nil
}

// Logout invalidates all of the caller's refresh tokens. Outstanding access
// tokens keep working until they expire on their own.
func (s *AuthService) Logout(ctx context.Context, userID int) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	return s.tokenRepo.DeleteByUserID(ctx, userID)
}

// newRefreshToken generates the opaque token returned to the client and the
// SHA-256 hash that gets persisted in its place.
func newRefreshToken() (plain, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	plain = base64.RawURLEncoding.EncodeToString(b)
	return plain, hashRefreshToken(plain), nil
}

func hashRefreshToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
