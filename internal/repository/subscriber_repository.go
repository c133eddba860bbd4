package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"modion/internal/model"
)

// SubscriberRepository stores newsletter subscriptions.
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *model.EmailSubscriber) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type subscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository creates a new subscriber repository.
func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) Create(ctx context.Context, subscriber *model.EmailSubscriber) error {
	return r.db.WithContext(ctx).Create(subscriber).Error
}

func (r *subscriberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var sub model.EmailSubscriber
	err := r.db.WithContext(ctx).Select("id").Where("email = ?", email).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ContactRepository stores contact form messages.
type ContactRepository interface {
	Create(ctx context.Context, msg *model.ContactMessage) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact message repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}
