package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ChhatbarPooja/crm-api/internal/api/metrics"
	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
	"github.com/ChhatbarPooja/crm-api/internal/core/pagination"
	"github.com/ChhatbarPooja/crm-api/internal/core/ports"
)

// UnreadCounter abstracts the unread-count cache (Redis). All methods are
// best effort: a cache failure degrades to a repository count, never to a
// request failure.
type UnreadCounter interface {
	Get(ctx context.Context, userID string) (int64, bool, error)
	Set(ctx context.Context, userID string, count int64) error
	Invalidate(ctx context.Context, userID string) error
}

type NotificationService struct {
	repo   ports.NotificationRepository
	users  ports.UserRepository
	leads  ports.LeadRepository
	unread UnreadCounter
	logger zerolog.Logger
}

func NewNotificationService(repo ports.NotificationRepository, users ports.UserRepository, leads ports.LeadRepository, unread UnreadCounter, logger zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, users: users, leads: leads, unread: unread, logger: logger}
}

// HandleEvent turns a domain event into notification rows.
//
//   - LeadAssigned with a non-empty new assignee notifies the new assignee.
//   - StatusChanged notifies the lead's assignee unless the assignee made
//     the change themselves.
//
// Recipients who disabled the matching preference key are skipped. There is
// no deduplication: every event produces its notifications again when
// replayed (at-least-once).
func (s *NotificationService) HandleEvent(ctx context.Context, event domain.Event) ([]*domain.Notification, error) {
	switch ev := event.(type) {
	case domain.LeadAssigned:
		if ev.NewAssignee == "" {
			return nil, nil
		}
		if !s.wantsNotification(ctx, ev.NewAssignee, domain.PrefLeadAssigned) {
			return nil, nil
		}
		msg := fmt.Sprintf("%s assigned %s to you", ev.ActorName, ev.LeadName)
		n, err := s.create(ctx, ev.NewAssignee, ev.LeadID, msg, ev.At)
		if err != nil {
			return nil, err
		}
		metrics.NotificationsDispatchedTotal.WithLabelValues("lead_assigned").Inc()
		return []*domain.Notification{n}, nil

	case domain.StatusChanged:
		recipient := s.assigneeOf(ctx, ev.LeadID)
		if recipient == "" || recipient == ev.ActorID {
			return nil, nil
		}
		if !s.wantsNotification(ctx, recipient, domain.PrefStatusChanged) {
			return nil, nil
		}
		msg := fmt.Sprintf("%s moved %s from %s to %s", ev.ActorName, ev.LeadName, ev.Previous, ev.Next)
		n, err := s.create(ctx, recipient, ev.LeadID, msg, ev.At)
		if err != nil {
			return nil, err
		}
		metrics.NotificationsDispatchedTotal.WithLabelValues("status_changed").Inc()
		return []*domain.Notification{n}, nil
	}

	return nil, nil
}

func (s *NotificationService) create(ctx context.Context, recipient, leadID, message string, at time.Time) (*domain.Notification, error) {
	n := &domain.Notification{
		Recipient:   recipient,
		RelatedLead: leadID,
		Message:     message,
		Read:        false,
		CreatedAt:   at,
	}
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		s.logger.Error().Err(err).Str("recipient", recipient).Msg("failed to create notification")
		return nil, err
	}
	s.invalidateUnread(ctx, recipient)
	return created, nil
}

func (s *NotificationService) List(ctx context.Context, actor domain.Actor, page, limit int) (*ports.ListNotificationsResult, error) {
	window := pagination.Paginate(0, page, limit)

	items, total, err := s.repo.ListByRecipient(ctx, actor.ID, window.Offset, window.Limit)
	if err != nil {
		return nil, err
	}

	return &ports.ListNotificationsResult{
		Items: items,
		Page:  pagination.Paginate(total, window.Page, window.Limit),
	}, nil
}

// UnreadCount returns the actor's unread notification count, served from
// the cache when warm.
func (s *NotificationService) UnreadCount(ctx context.Context, actor domain.Actor) (int64, error) {
	if count, ok, err := s.unread.Get(ctx, actor.ID); err == nil && ok {
		return count, nil
	} else if err != nil {
		s.logger.Warn().Err(err).Str("user", actor.ID).Msg("unread cache read failed")
	}

	count, err := s.repo.CountUnread(ctx, actor.ID)
	if err != nil {
		return 0, err
	}
	if err := s.unread.Set(ctx, actor.ID, count); err != nil {
		s.logger.Warn().Err(err).Str("user", actor.ID).Msg("unread cache write failed")
	}
	return count, nil
}

// MarkRead marks one notification read. The recipient is the only
// non-admin actor allowed to do this; absence is reported before ownership
// so callers can distinguish 404 from 403.
func (s *NotificationService) MarkRead(ctx context.Context, actor domain.Actor, id string) (*domain.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{Kind: domain.ResourceNotification, ID: n.ID, OwnerID: n.Recipient}
	if d := domain.Decide(actor, res, domain.OpUpdate); !d.Allowed {
		return nil, fmt.Errorf("mark read: %w: %s", domain.ErrForbidden, d.Reason)
	}

	if !n.Read {
		if err := s.repo.MarkRead(ctx, id); err != nil {
			return nil, err
		}
		n.Read = true
		metrics.NotificationsReadTotal.Inc()
		s.invalidateUnread(ctx, n.Recipient)
	}
	return n, nil
}

// MarkAllRead marks every unread notification of the actor read.
// Notifications of other recipients are untouched.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor domain.Actor) error {
	updated, err := s.repo.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return err
	}
	if updated > 0 {
		metrics.NotificationsReadTotal.Add(float64(updated))
		s.invalidateUnread(ctx, actor.ID)
	}
	return nil
}

func (s *NotificationService) wantsNotification(ctx context.Context, userID, key string) bool {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn().Err(err).Str("user", userID).Msg("preference lookup failed, dispatching anyway")
			return true
		}
		return false
	}
	return user.WantsNotification(key)
}

// assigneeOf resolves the current assignee of a lead at dispatch time.
// StatusChanged events do not carry the assignee because assignment may
// change between emit and dispatch.
func (s *NotificationService) assigneeOf(ctx context.Context, leadID string) string {
	lead, err := s.leads.FindByID(ctx, leadID)
	if err != nil {
		s.logger.Warn().Err(err).Str("lead", leadID).Msg("assignee lookup failed, skipping notification")
		return ""
	}
	return lead.AssignedTo
}

func (s *NotificationService) invalidateUnread(ctx context.Context, userID string) {
	if err := s.unread.Invalidate(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("unread cache invalidation failed")
	}
}
