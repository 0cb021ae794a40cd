package repository

import (
	"context"
	"database/sql"
)

// INewsletterRepository defines the contract for newsletter signups.
type INewsletterRepository interface {
	Subscribe(ctx context.Context, email string) error
}

type NewsletterRepository struct {
	DB *sql.DB
}

func NewNewsletterRepository(db *sql.DB) *NewsletterRepository {
	return &NewsletterRepository{DB: db}
}

// Subscribe records a signup. Repeated signups with the same email are a
// no-op, which keeps the endpoint idempotent.
func (r *NewsletterRepository) Subscribe(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO newsletter_subscribers (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`, email)
	return err
}
