package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
)

type stubNotificationRepo struct {
	notifications map[string]*domain.Notification
	nextID        int
	failErr       error
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{notifications: make(map[string]*domain.Notification)}
}

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	r.nextID++
	clone := *n
	clone.ID = fmt.Sprintf("notif%d", r.nextID)
	r.notifications[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubNotificationRepo) FindByID(_ context.Context, id string) (*domain.Notification, error) {
	n, ok := r.notifications[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	clone := *n
	return &clone, nil
}

func (r *stubNotificationRepo) ListByRecipient(_ context.Context, recipient string, offset, limit int) ([]*domain.Notification, int64, error) {
	var matched []*domain.Notification
	for _, n := range r.notifications {
		if n.Recipient == recipient {
			clone := *n
			matched = append(matched, &clone)
		}
	}
	total := int64(len(matched))
	if offset > len(matched) {
		return []*domain.Notification{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, recipient string) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.Recipient == recipient && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id string) error {
	n, ok := r.notifications[id]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, recipient string) (int64, error) {
	var updated int64
	for _, n := range r.notifications {
		if n.Recipient == recipient && !n.Read {
			n.Read = true
			updated++
		}
	}
	return updated, nil
}

// stubUnreadCache records reads and writes so cache-aside behaviour can be
// asserted without Redis.
type stubUnreadCache struct {
	counts      map[string]int64
	gets        int
	sets        int
	invalidated []string
}

func newStubUnreadCache() *stubUnreadCache {
	return &stubUnreadCache{counts: make(map[string]int64)}
}

func (c *stubUnreadCache) Get(_ context.Context, userID string) (int64, bool, error) {
	c.gets++
	count, ok := c.counts[userID]
	return count, ok, nil
}

func (c *stubUnreadCache) Set(_ context.Context, userID string, count int64) error {
	c.sets++
	c.counts[userID] = count
	return nil
}

func (c *stubUnreadCache) Invalidate(_ context.Context, userID string) error {
	c.invalidated = append(c.invalidated, userID)
	delete(c.counts, userID)
	return nil
}

func newNotificationFixture(users ...*domain.User) (*NotificationService, *stubNotificationRepo, *stubLeadRepo, *stubUnreadCache) {
	repo := newStubNotificationRepo()
	leads := newStubLeadRepo()
	cache := newStubUnreadCache()
	svc := NewNotificationService(repo, newStubUserRepo(users...), leads, cache, discardLogger)
	return svc, repo, leads, cache
}

// ---------------------------------------------------------------------------
// HandleEvent
// ---------------------------------------------------------------------------

func TestNotificationService_LeadAssigned_NotifiesNewAssignee(t *testing.T) {
	svc, repo, _, cache := newNotificationFixture(
		&domain.User{ID: "rep1", Name: "Rita", Role: domain.RoleSales},
	)

	created, err := svc.HandleEvent(context.Background(), domain.LeadAssigned{
		LeadID:      "lead1",
		LeadName:    "Acme deal",
		NewAssignee: "rep1",
		ActorID:     "admin1",
		ActorName:   "Ada",
		At:          time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(created))
	}

	n := created[0]
	if n.Recipient != "rep1" {
		t.Errorf("recipient = %q, want rep1", n.Recipient)
	}
	if n.RelatedLead != "lead1" {
		t.Errorf("related lead = %q, want lead1", n.RelatedLead)
	}
	if n.Read {
		t.Error("new notification must start unread")
	}
	if n.Message != "Ada assigned Acme deal to you" {
		t.Errorf("unexpected message: %q", n.Message)
	}
	if len(repo.notifications) != 1 {
		t.Errorf("expected 1 persisted notification, got %d", len(repo.notifications))
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "rep1" {
		t.Errorf("expected unread cache invalidation for rep1, got %v", cache.invalidated)
	}
}

func TestNotificationService_LeadAssigned_Unassign(t *testing.T) {
	svc, repo, _, _ := newNotificationFixture()

	created, err := svc.HandleEvent(context.Background(), domain.LeadAssigned{
		LeadID:           "lead1",
		PreviousAssignee: "rep1",
		NewAssignee:      "",
		ActorID:          "admin1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 0 || len(repo.notifications) != 0 {
		t.Error("unassignment must not notify anyone")
	}
}

func TestNotificationService_LeadAssigned_PreferenceOptOut(t *testing.T) {
	svc, repo, _, _ := newNotificationFixture(
		&domain.User{
			ID:                      "rep1",
			Role:                    domain.RoleSales,
			NotificationPreferences: map[string]bool{domain.PrefLeadAssigned: false},
		},
	)

	created, err := svc.HandleEvent(context.Background(), domain.LeadAssigned{
		LeadID:      "lead1",
		NewAssignee: "rep1",
		ActorID:     "admin1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 0 || len(repo.notifications) != 0 {
		t.Error("opted-out recipient must not be notified")
	}
}

func TestNotificationService_StatusChanged_NotifiesAssignee(t *testing.T) {
	svc, _, leads, _ := newNotificationFixture(
		&domain.User{ID: "rep1", Name: "Rita", Role: domain.RoleSales},
	)
	lead := seedLead(leads, domain.StatusQualified, "rep1")

	created, err := svc.HandleEvent(context.Background(), domain.StatusChanged{
		LeadID:    lead.ID,
		LeadName:  "Acme deal",
		Previous:  domain.StatusNewLead,
		Next:      domain.StatusQualified,
		ActorID:   "admin1",
		ActorName: "Ada",
		At:        time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(created))
	}
	if created[0].Recipient != "rep1" {
		t.Errorf("recipient = %q, want rep1", created[0].Recipient)
	}
	if created[0].Message != "Ada moved Acme deal from New Lead to Qualified" {
		t.Errorf("unexpected message: %q", created[0].Message)
	}
}

func TestNotificationService_StatusChanged_SelfChangeSkipped(t *testing.T) {
	svc, repo, leads, _ := newNotificationFixture(
		&domain.User{ID: "rep1", Name: "Rita", Role: domain.RoleSales},
	)
	lead := seedLead(leads, domain.StatusContacted, "rep1")

	created, err := svc.HandleEvent(context.Background(), domain.StatusChanged{
		LeadID:  lead.ID,
		ActorID: "rep1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 0 || len(repo.notifications) != 0 {
		t.Error("actors must not be notified about their own changes")
	}
}

func TestNotificationService_StatusChanged_UnassignedLeadSkipped(t *testing.T) {
	svc, repo, leads, _ := newNotificationFixture()
	lead := seedLead(leads, domain.StatusContacted, "")

	created, err := svc.HandleEvent(context.Background(), domain.StatusChanged{
		LeadID:  lead.ID,
		ActorID: "admin1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 0 || len(repo.notifications) != 0 {
		t.Error("status change on an unassigned lead must not notify")
	}
}

func TestNotificationService_HandleEvent_NoDedup(t *testing.T) {
	svc, repo, _, _ := newNotificationFixture(
		&domain.User{ID: "rep1", Role: domain.RoleSales},
	)

	event := domain.LeadAssigned{LeadID: "lead1", NewAssignee: "rep1", ActorID: "admin1"}
	for i := 0; i < 3; i++ {
		if _, err := svc.HandleEvent(context.Background(), event); err != nil {
			t.Fatalf("dispatch %d failed: %v", i, err)
		}
	}
	if len(repo.notifications) != 3 {
		t.Errorf("replayed events must produce fresh rows, got %d", len(repo.notifications))
	}
}

// ---------------------------------------------------------------------------
// MarkRead / MarkAllRead / UnreadCount
// ---------------------------------------------------------------------------

func TestNotificationService_MarkRead(t *testing.T) {
	svc, repo, _, cache := newNotificationFixture()
	seeded, _ := repo.Create(context.Background(), &domain.Notification{Recipient: "rep1"})

	actor := domain.Actor{ID: "rep1", Role: domain.RoleSales}
	n, err := svc.MarkRead(context.Background(), actor, seeded.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.Read {
		t.Error("notification should be read")
	}
	if !repo.notifications[seeded.ID].Read {
		t.Error("read flag not persisted")
	}
	if len(cache.invalidated) == 0 {
		t.Error("marking read must invalidate the unread cache")
	}
}

func TestNotificationService_MarkRead_OtherRecipientForbidden(t *testing.T) {
	svc, repo, _, _ := newNotificationFixture()
	seeded, _ := repo.Create(context.Background(), &domain.Notification{Recipient: "rep1"})

	actor := domain.Actor{ID: "rep2", Role: domain.RoleSales}
	_, err := svc.MarkRead(context.Background(), actor, seeded.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.notifications[seeded.ID].Read {
		t.Error("denied mark must not mutate")
	}
}

func TestNotificationService_MarkRead_MissingBeforeForbidden(t *testing.T) {
	svc, _, _, _ := newNotificationFixture()

	actor := domain.Actor{ID: "rep2", Role: domain.RoleSales}
	_, err := svc.MarkRead(context.Background(), actor, "ghost")
	if !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
}

func TestNotificationService_MarkRead_AlreadyReadIsIdempotent(t *testing.T) {
	svc, repo, _, cache := newNotificationFixture()
	seeded, _ := repo.Create(context.Background(), &domain.Notification{Recipient: "rep1", Read: true})

	actor := domain.Actor{ID: "rep1", Role: domain.RoleSales}
	n, err := svc.MarkRead(context.Background(), actor, seeded.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.Read {
		t.Error("notification should stay read")
	}
	if len(cache.invalidated) != 0 {
		t.Errorf("no-op mark must not invalidate the cache, got %v", cache.invalidated)
	}
}

func TestNotificationService_MarkAllRead_ScopedToActor(t *testing.T) {
	svc, repo, _, _ := newNotificationFixture()
	repo.Create(context.Background(), &domain.Notification{Recipient: "rep1"})
	repo.Create(context.Background(), &domain.Notification{Recipient: "rep1"})
	repo.Create(context.Background(), &domain.Notification{Recipient: "rep2"})

	actor := domain.Actor{ID: "rep1", Role: domain.RoleSales}
	if err := svc.MarkAllRead(context.Background(), actor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, n := range repo.notifications {
		switch n.Recipient {
		case "rep1":
			if !n.Read {
				t.Error("rep1 notifications should all be read")
			}
		case "rep2":
			if n.Read {
				t.Error("rep2 notifications must be untouched")
			}
		}
	}
}

func TestNotificationService_UnreadCount_CacheAside(t *testing.T) {
	svc, repo, _, cache := newNotificationFixture()
	repo.Create(context.Background(), &domain.Notification{Recipient: "rep1"})
	repo.Create(context.Background(), &domain.Notification{Recipient: "rep1"})
	cache.invalidated = nil

	actor := domain.Actor{ID: "rep1", Role: domain.RoleSales}

	count, err := svc.UnreadCount(context.Background(), actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if cache.sets != 1 {
		t.Errorf("cache miss should populate the cache, sets = %d", cache.sets)
	}

	// Second read must be served from the cache.
	repo.Create(context.Background(), &domain.Notification{Recipient: "rep2"})
	if _, err := svc.UnreadCount(context.Background(), actor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("cache hit must not write again, sets = %d", cache.sets)
	}
}
