package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/divvyup/divvy/internal/money"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// Service handles notification business logic
type Service struct {
	repo *Repository
}

// NewService creates a new notification service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// GetByID retrieves a notification by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	return notification, nil
}

// ListByRecipientID retrieves a user's notifications
func (s *Service) ListByRecipientID(ctx context.Context, recipientID int64, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByRecipientID(ctx, recipientID, perPage, offset, unreadOnly)
}

// MarkAsRead marks a notification as read
func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification == nil {
		return ErrNotificationNotFound
	}
	if notification.RecipientID != userID {
		return ErrNotRecipient
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user
func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// Domain event helpers. Callers treat failures as non-fatal.

// NotifyExpenseAdded tells a participant they owe a share of a new expense.
func (s *Service) NotifyExpenseAdded(ctx context.Context, recipientID int64, payerName string, shareCents, expenseID int64) (*Notification, error) {
	message := fmt.Sprintf("%s added an expense; your share is %s", payerName, money.Format(shareCents))
	entityType := EntityTypeExpense
	return s.repo.Create(ctx, recipientID, message, &entityType, &expenseID)
}

// NotifyPaymentRecorded tells the receiver a payment is waiting for their
// confirmation.
func (s *Service) NotifyPaymentRecorded(ctx context.Context, recipientID int64, senderName string, amountCents, paymentID int64) (*Notification, error) {
	message := fmt.Sprintf("%s says they paid you %s. Please confirm.", senderName, money.Format(amountCents))
	entityType := EntityTypePayment
	return s.repo.Create(ctx, recipientID, message, &entityType, &paymentID)
}

// NotifyPaymentCompleted tells the sender their payment was confirmed.
func (s *Service) NotifyPaymentCompleted(ctx context.Context, recipientID int64, receiverName string, amountCents, paymentID int64) (*Notification, error) {
	message := fmt.Sprintf("%s confirmed your payment of %s", receiverName, money.Format(amountCents))
	entityType := EntityTypePayment
	return s.repo.Create(ctx, recipientID, message, &entityType, &paymentID)
}

// NotifyMemberAdded tells a user they were added to a group.
func (s *Service) NotifyMemberAdded(ctx context.Context, recipientID int64, groupName string, groupID int64) (*Notification, error) {
	message := fmt.Sprintf("You were added to group %s", groupName)
	entityType := EntityTypeGroup
	return s.repo.Create(ctx, recipientID, message, &entityType, &groupID)
}
