package ports

import (
	"context"

	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	// ListByRecipient returns one page of the recipient's notifications,
	// newest first, and the recipient's total notification count.
	ListByRecipient(ctx context.Context, recipient string, offset, limit int) ([]*domain.Notification, int64, error)
	CountUnread(ctx context.Context, recipient string) (int64, error)
	// MarkRead flips a single notification to read.
	MarkRead(ctx context.Context, id string) error
	// MarkAllRead flips every unread notification of the recipient to read
	// and returns how many were updated.
	MarkAllRead(ctx context.Context, recipient string) (int64, error)
}
