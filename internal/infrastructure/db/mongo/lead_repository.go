package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
	"github.com/ChhatbarPooja/crm-api/internal/core/ports"
)

const collectionLeads = "leads"

type LeadRepository struct {
	col *mongo.Collection
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{col: db.Collection(collectionLeads)}
}

type mongoMoney struct {
	Amount   float64 `bson:"amount"`
	Currency string  `bson:"currency"`
}

type mongoHistoryEntry struct {
	Status    string    `bson:"status"`
	ChangedBy string    `bson:"changed_by,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
}

type mongoLead struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	Name          string              `bson:"name"`
	Company       string              `bson:"company"`
	Email         string              `bson:"email"`
	Phone         string              `bson:"phone"`
	Status        string              `bson:"status"`
	AssignedTo    string              `bson:"assigned_to,omitempty"`
	Value         mongoMoney          `bson:"value"`
	Notes         string              `bson:"notes,omitempty"`
	CreatedAt     time.Time           `bson:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at"`
	StatusHistory []mongoHistoryEntry `bson:"status_history"`
}

func (m *mongoLead) toDomain() *domain.Lead {
	history := make([]domain.StatusHistoryEntry, 0, len(m.StatusHistory))
	for _, h := range m.StatusHistory {
		history = append(history, domain.StatusHistoryEntry{
			Status:    domain.LeadStatus(h.Status),
			ChangedBy: h.ChangedBy,
			Timestamp: h.Timestamp,
		})
	}
	return &domain.Lead{
		ID:            m.ID.Hex(),
		Name:          m.Name,
		Company:       m.Company,
		Email:         m.Email,
		Phone:         m.Phone,
		Status:        domain.LeadStatus(m.Status),
		AssignedTo:    m.AssignedTo,
		Value:         domain.Money{Amount: m.Value.Amount, Currency: m.Value.Currency},
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		StatusHistory: history,
	}
}

func fromDomainLead(l *domain.Lead) *mongoLead {
	history := make([]mongoHistoryEntry, 0, len(l.StatusHistory))
	for _, h := range l.StatusHistory {
		history = append(history, mongoHistoryEntry{
			Status:    string(h.Status),
			ChangedBy: h.ChangedBy,
			Timestamp: h.Timestamp,
		})
	}
	return &mongoLead{
		Name:          l.Name,
		Company:       l.Company,
		Email:         l.Email,
		Phone:         l.Phone,
		Status:        string(l.Status),
		AssignedTo:    l.AssignedTo,
		Value:         mongoMoney{Amount: l.Value.Amount, Currency: l.Value.Currency},
		Notes:         l.Notes,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
		StatusHistory: history,
	}
}

// leadID parses a lead id into an ObjectID; a malformed id behaves like a
// missing document.
func leadID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrLeadNotFound
	}
	return oid, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromDomainLead(lead)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}

	created := *lead
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*domain.Lead, error) {
	oid, err := leadID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoLead
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return m.toDomain(), nil
}

// List returns one page of leads matching the filter, newest first, plus
// the total match count.
func (r *LeadRepository) List(ctx context.Context, filter ports.ListLeadsFilter) ([]*domain.Lead, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.AssignedTo != "" {
		query["assigned_to"] = filter.AssignedTo
	}
	if filter.Search != "" {
		regex := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"company": regex},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	skip := int64(filter.Page-1) * int64(filter.Limit)
	if skip < 0 {
		skip = 0
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer cur.Close(ctx)

	leads := make([]*domain.Lead, 0)
	for cur.Next(ctx) {
		var m mongoLead
		if err := cur.Decode(&m); err != nil {
			return nil, 0, fmt.Errorf("decode lead: %w", err)
		}
		leads = append(leads, m.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func (r *LeadRepository) UpdateFields(ctx context.Context, id string, fields ports.UpdateLeadFields) (*domain.Lead, error) {
	oid, err := leadID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Company != nil {
		set["company"] = *fields.Company
	}
	if fields.Email != nil {
		set["email"] = *fields.Email
	}
	if fields.Phone != nil {
		set["phone"] = *fields.Phone
	}
	if fields.Value != nil {
		set["value"] = mongoMoney{Amount: fields.Value.Amount, Currency: fields.Value.Currency}
	}
	if fields.Notes != nil {
		set["notes"] = *fields.Notes
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m mongoLead
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return m.toDomain(), nil
}

// UpdateStatus atomically sets the new status and appends a history entry
// in a single document update.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status domain.LeadStatus, entry domain.StatusHistoryEntry) error {
	oid, err := leadID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"status":     string(status),
			"updated_at": entry.Timestamp,
		},
		"$push": bson.M{"status_history": mongoHistoryEntry{
			Status:    string(entry.Status),
			ChangedBy: entry.ChangedBy,
			Timestamp: entry.Timestamp,
		}},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) UpdateAssignee(ctx context.Context, id string, assignee string) error {
	oid, err := leadID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	if assignee == "" {
		update["$unset"] = bson.M{"assigned_to": ""}
	} else {
		update["$set"].(bson.M)["assigned_to"] = assignee
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update assignee: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	oid, err := leadID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing the list filters.
func (r *LeadRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
