package services

import (
	"errors"
	"fmt"
	"log"

	"swagstore/internal/models"
	"swagstore/internal/repositories"
)

// WelcomeMailer sends the newsletter welcome mail. A nil mailer disables
// sending.
type WelcomeMailer interface {
	SendWelcome(to string) error
}

// NewsletterService records newsletter signups. Subscribing an email that
// is already on the list is a silent no-op.
type NewsletterService struct {
	subscriberRepo repositories.SubscriberRepository
	mailer         WelcomeMailer
}

// NewNewsletterService creates a new NewsletterService.
func NewNewsletterService(subscriberRepo repositories.SubscriberRepository, mailer WelcomeMailer) *NewsletterService {
	return &NewsletterService{
		subscriberRepo: subscriberRepo,
		mailer:         mailer,
	}
}

// Subscribe adds an email to the newsletter list. It reports whether a new
// subscription was created.
func (s *NewsletterService) Subscribe(email string) (bool, error) {
	if existing, err := s.subscriberRepo.GetByEmail(email); err == nil && existing != nil {
		return false, nil
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return false, fmt.Errorf("failed to check existing subscriber: %w", err)
	}

	subscriber := &models.Subscriber{Email: email}
	if err := s.subscriberRepo.Create(subscriber); err != nil {
		// A concurrent subscribe can slip past the lookup above and hit
		// the unique index instead. Still a no-op.
		if errors.Is(err, repositories.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create subscriber: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(email); err != nil {
			log.Printf("Failed to send welcome mail to %s: %v", email, err)
		}
	}
	return true, nil
}
