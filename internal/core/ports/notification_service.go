package ports

import (
	"context"

	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
	"github.com/ChhatbarPooja/crm-api/internal/core/pagination"
)

// ListNotificationsResult is returned by List.
type ListNotificationsResult struct {
	Items []*domain.Notification
	Page  pagination.Page
}

// NotificationService covers both sides of the notification lifecycle: the
// dispatcher that turns domain events into notification rows, and the
// recipient-scoped read operations.
type NotificationService interface {
	// HandleEvent creates the notifications a domain event calls for and
	// returns them. No deduplication is performed: replaying an event
	// produces duplicate notifications (at-least-once contract).
	HandleEvent(ctx context.Context, event domain.Event) ([]*domain.Notification, error)

	List(ctx context.Context, actor domain.Actor, page, limit int) (*ListNotificationsResult, error)
	UnreadCount(ctx context.Context, actor domain.Actor) (int64, error)
	// MarkRead marks one notification read. Fails with ErrNotificationNotFound
	// when absent and ErrForbidden when the actor is not the recipient.
	MarkRead(ctx context.Context, actor domain.Actor, id string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, actor domain.Actor) error
}
