package service

import (
	"context"
	"shop-api/logger"
	"shop-api/repository"
)

// NewsletterService handles storefront newsletter signups.
type NewsletterService struct {
	newsletterRepo repository.INewsletterRepository
}

func NewNewsletterService(newsletterRepo repository.INewsletterRepository) *NewsletterService {
	return &NewsletterService{newsletterRepo: newsletterRepo}
}

// Subscribe records a signup. Subscribing an address twice succeeds without
// creating a second record.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	email = normalizeEmail(email)
	if err := s.newsletterRepo.Subscribe(ctx, email); err != nil {
		return err
	}

	logger.Log.Info("Newsletter signup recorded")
	return nil
}
