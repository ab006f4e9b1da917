package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainproperties "stayfinder/internal/domain/properties"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection("agg_property")}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperties.PropertyID) (*domainproperties.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainproperties.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *PropertyRepository) Save(ctx context.Context, property *domainproperties.Property) error {
	doc := newPropertyDocument(property)
	filter := bson.M{"_id": doc.ID, "version": property.Version}
	doc.Version = property.Version + 1
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
	property.Version = doc.Version
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id domainproperties.PropertyID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainproperties.ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) Search(ctx context.Context, params domainproperties.SearchParams) (domainproperties.SearchResult, error) {
	opts := params.Normalized()
	filter := bson.M{}
	if opts.Location != "" {
		filter["location"] = bson.M{"$regex": primitive.Regex{Pattern: opts.Location, Options: "i"}}
	}
	if opts.Guests > 0 {
		filter["max_guests"] = bson.M{"$gte": opts.Guests}
	}
	if opts.FeaturedOnly {
		filter["featured"] = true
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainproperties.SearchResult{}, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "featured", Value: -1}, {Key: "nightly_rate_cents", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit))
	cursor, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return domainproperties.SearchResult{}, err
	}
	defer cursor.Close(ctx)

	items := make([]*domainproperties.Property, 0, opts.Limit)
	for cursor.Next(ctx) {
		var doc propertyDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainproperties.SearchResult{}, err
		}
		items = append(items, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return domainproperties.SearchResult{}, err
	}
	return domainproperties.SearchResult{Items: items, Total: int(total)}, nil
}

type hostDocument struct {
	ID     string `bson:"id"`
	Name   string `bson:"name"`
	Image  string `bson:"image"`
	Joined int64  `bson:"joined"`
}

type propertyDocument struct {
	ID               string       `bson:"_id"`
	Title            string       `bson:"title"`
	Description      string       `bson:"description"`
	Location         string       `bson:"location"`
	Images           []string     `bson:"images"`
	NightlyRateCents int64        `bson:"nightly_rate_cents"`
	Currency         string       `bson:"currency"`
	Rating           float64      `bson:"rating"`
	ReviewCount      int          `bson:"review_count"`
	Amenities        []string     `bson:"amenities"`
	Bedrooms         int          `bson:"bedrooms"`
	Bathrooms        int          `bson:"bathrooms"`
	MaxGuests        int          `bson:"max_guests"`
	Featured         bool         `bson:"featured"`
	Host             hostDocument `bson:"host"`
	CreatedAt        int64        `bson:"created_at"`
	UpdatedAt        int64        `bson:"updated_at"`
	Version          int64        `bson:"version"`
}

func newPropertyDocument(p *domainproperties.Property) propertyDocument {
	return propertyDocument{
		ID:               string(p.ID),
		Title:            p.Title,
		Description:      p.Description,
		Location:         p.Location,
		Images:           p.Images,
		NightlyRateCents: p.NightlyRateCents,
		Currency:         p.Currency,
		Rating:           p.Rating,
		ReviewCount:      p.ReviewCount,
		Amenities:        p.Amenities,
		Bedrooms:         p.Bedrooms,
		Bathrooms:        p.Bathrooms,
		MaxGuests:        p.MaxGuests,
		Featured:         p.Featured,
		Host: hostDocument{
			ID:     p.Host.ID,
			Name:   p.Host.Name,
			Image:  p.Host.Image,
			Joined: p.Host.Joined.UnixMilli(),
		},
		CreatedAt: p.CreatedAt.UnixMilli(),
		UpdatedAt: p.UpdatedAt.UnixMilli(),
		Version:   p.Version,
	}
}

func (d propertyDocument) toAggregate() *domainproperties.Property {
	return &domainproperties.Property{
		ID:               domainproperties.PropertyID(d.ID),
		Title:            d.Title,
		Description:      d.Description,
		Location:         d.Location,
		Images:           d.Images,
		NightlyRateCents: d.NightlyRateCents,
		Currency:         d.Currency,
		Rating:           d.Rating,
		ReviewCount:      d.ReviewCount,
		Amenities:        d.Amenities,
		Bedrooms:         d.Bedrooms,
		Bathrooms:        d.Bathrooms,
		MaxGuests:        d.MaxGuests,
		Featured:         d.Featured,
		Host: domainproperties.Host{
			ID:     d.Host.ID,
			Name:   d.Host.Name,
			Image:  d.Host.Image,
			Joined: timestampToTime(d.Host.Joined),
		},
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domainproperties.Repository = (*PropertyRepository)(nil)
