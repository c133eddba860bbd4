package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	apperrors "modion/internal/errors"
	"modion/internal/mailer"
	"modion/internal/model"
	"modion/internal/repository"
)

// ContactInput is a message submitted through the contact form.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactService stores contact messages and acknowledges them by email.
type ContactService interface {
	Submit(ctx context.Context, in ContactInput) error
}

type contactService struct {
	repo   repository.ContactRepository
	mailer mailer.Mailer
	policy *bluemonday.Policy
}

// NewContactService creates a new contact service.
func NewContactService(repo repository.ContactRepository, m mailer.Mailer) ContactService {
	return &contactService{repo: repo, mailer: m, policy: bluemonday.StrictPolicy()}
}

// Submit persists the message and emails the sender. Markup is stripped from
// every field before storing.
func (s *contactService) Submit(ctx context.Context, in ContactInput) error {
	msg := &model.ContactMessage{
		Name:    s.plain(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: s.plain(in.Subject),
		Message: s.plain(in.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		return apperrors.ErrContactFieldsRequired
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return fmt.Errorf("save contact message: %w", err)
	}

	subject, body := mailer.ContactEmail(msg.Name, msg.Subject)
	if err := s.mailer.Send(ctx, msg.Email, subject, body); err != nil {
		return fmt.Errorf("send contact acknowledgement: %w", err)
	}
	return nil
}

func (s *contactService) plain(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}
