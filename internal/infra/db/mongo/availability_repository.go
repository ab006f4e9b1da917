package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "stayfinder/internal/domain/availability"
	"stayfinder/internal/domain/shared/calendar"
)

// AvailabilityRepository persists calendars as the list of bookable dates.
// Dates absent from the list are unbookable, so the list is the whole state.
type AvailabilityRepository struct {
	col *mongo.Collection
}

func NewAvailabilityRepository(db *mongo.Database) *AvailabilityRepository {
	return &AvailabilityRepository{col: db.Collection("agg_availability")}
}

func (r *AvailabilityRepository) ForProperty(ctx context.Context, propertyID string) (*domainavailability.Map, error) {
	var doc availabilityDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": propertyID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainavailability.NewMap(propertyID), nil
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *AvailabilityRepository) Save(ctx context.Context, m *domainavailability.Map) error {
	doc := newAvailabilityDocument(m)
	filter := bson.M{"_id": doc.ID, "version": m.Version}
	doc.Version = m.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	m.Version = doc.Version
	return nil
}

type availabilityDocument struct {
	ID            string   `bson:"_id"`
	BookableDates []string `bson:"bookable_dates"`
	Version       int64    `bson:"version"`
}

func newAvailabilityDocument(m *domainavailability.Map) availabilityDocument {
	dates := m.BookableDates()
	doc := availabilityDocument{
		ID:            m.PropertyID,
		BookableDates: make([]string, 0, len(dates)),
		Version:       m.Version,
	}
	for _, d := range dates {
		doc.BookableDates = append(doc.BookableDates, d.String())
	}
	return doc
}

func (d availabilityDocument) toAggregate() (*domainavailability.Map, error) {
	m := domainavailability.NewMap(d.ID)
	m.Version = d.Version
	for _, raw := range d.BookableDates {
		date, err := calendar.Parse(raw)
		if err != nil {
			return nil, err
		}
		m.SetBookable(date, true)
	}
	return m, nil
}

var _ domainavailability.Repository = (*AvailabilityRepository)(nil)
