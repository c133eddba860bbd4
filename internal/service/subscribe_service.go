package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "modion/internal/errors"
	"modion/internal/mailer"
	"modion/internal/model"
	"modion/internal/repository"
)

// SubscribeService manages newsletter subscriptions.
type SubscribeService interface {
	Subscribe(ctx context.Context, email string) error
}

type subscribeService struct {
	repo   repository.SubscriberRepository
	mailer mailer.Mailer
}

// NewSubscribeService creates a new subscribe service.
func NewSubscribeService(repo repository.SubscriberRepository, m mailer.Mailer) SubscribeService {
	return &subscribeService{repo: repo, mailer: m}
}

// Subscribe records email, lowercased, and sends a welcome message.
func (s *subscribeService) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.ErrEmailRequired
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check subscriber: %w", err)
	}
	if exists {
		return apperrors.ErrAlreadySubscribed
	}

	if err := s.repo.Create(ctx, &model.EmailSubscriber{Email: email}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrAlreadySubscribed
		}
		return fmt.Errorf("save subscriber: %w", err)
	}

	subject, body := mailer.SubscribeEmail()
	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		return fmt.Errorf("send subscribe acknowledgement: %w", err)
	}
	return nil
}
