package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "stayfinder/internal/domain/booking"
	domainproperties "stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/calendar"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/shared/money"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
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
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	if guestID == "" {
		return nil, domainbooking.ErrGuestRequired
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"guest_id": guestID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeBookings(ctx, cursor)
}

func (r *BookingRepository) List(ctx context.Context, params domainbooking.ListParams) ([]*domainbooking.Booking, int, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if params.Offset > 0 {
		opts = opts.SetSkip(int64(params.Offset))
	}
	if params.Limit > 0 {
		opts = opts.SetLimit(int64(params.Limit))
	}
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)
	items, err := decodeBookings(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return items, int(total), nil
}

func decodeBookings(ctx context.Context, cursor *mongo.Cursor) ([]*domainbooking.Booking, error) {
	items := make([]*domainbooking.Booking, 0)
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		b, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type contactDocument struct {
	FirstName string `bson:"first_name"`
	LastName  string `bson:"last_name"`
	Email     string `bson:"email"`
	Phone     string `bson:"phone"`
}

type moneyDocument struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

type quoteDocument struct {
	Nights  int           `bson:"nights"`
	Nightly moneyDocument `bson:"nightly"`
	Fees    moneyDocument `bson:"fees"`
	Total   moneyDocument `bson:"total"`
}

type bookingDocument struct {
	ID             string          `bson:"_id"`
	PropertyID     string          `bson:"property_id"`
	GuestID        string          `bson:"guest_id"`
	CheckIn        string          `bson:"check_in"`
	CheckOut       string          `bson:"check_out"`
	Guests         int             `bson:"guests"`
	Contact        contactDocument `bson:"contact"`
	Quote          quoteDocument   `bson:"quote"`
	PaymentReceipt string          `bson:"payment_receipt"`
	State          string          `bson:"state"`
	CreatedAt      int64           `bson:"created_at"`
	UpdatedAt      int64           `bson:"updated_at"`
	Version        int64           `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:         string(b.ID),
		PropertyID: string(b.PropertyID),
		GuestID:    b.GuestID,
		CheckIn:    b.Range.CheckIn.String(),
		CheckOut:   b.Range.CheckOut.String(),
		Guests:     b.Guests,
		Contact: contactDocument{
			FirstName: b.Contact.FirstName,
			LastName:  b.Contact.LastName,
			Email:     b.Contact.Email,
			Phone:     b.Contact.Phone,
		},
		Quote: quoteDocument{
			Nights:  b.Quote.Nights,
			Nightly: moneyDocument{Amount: b.Quote.Nightly.Amount, Currency: b.Quote.Nightly.Currency},
			Fees:    moneyDocument{Amount: b.Quote.Fees.Amount, Currency: b.Quote.Fees.Currency},
			Total:   moneyDocument{Amount: b.Quote.Total.Amount, Currency: b.Quote.Total.Currency},
		},
		PaymentReceipt: b.PaymentReceipt,
		State:          string(b.State),
		CreatedAt:      b.CreatedAt.UnixMilli(),
		UpdatedAt:      b.UpdatedAt.UnixMilli(),
		Version:        b.Version,
	}
}

func (d bookingDocument) toAggregate() (*domainbooking.Booking, error) {
	checkIn, err := calendar.Parse(d.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := calendar.Parse(d.CheckOut)
	if err != nil {
		return nil, err
	}
	return &domainbooking.Booking{
		ID:         domainbooking.BookingID(d.ID),
		PropertyID: domainproperties.PropertyID(d.PropertyID),
		GuestID:    d.GuestID,
		Range:      daterange.DateRange{CheckIn: checkIn, CheckOut: checkOut},
		Guests:     d.Guests,
		Contact: domainbooking.Contact{
			FirstName: d.Contact.FirstName,
			LastName:  d.Contact.LastName,
			Email:     d.Contact.Email,
			Phone:     d.Contact.Phone,
		},
		Quote: domainbooking.Quote{
			Nights:  d.Quote.Nights,
			Nightly: money.Money{Amount: d.Quote.Nightly.Amount, Currency: d.Quote.Nightly.Currency},
			Fees:    money.Money{Amount: d.Quote.Fees.Amount, Currency: d.Quote.Fees.Currency},
			Total:   money.Money{Amount: d.Quote.Total.Amount, Currency: d.Quote.Total.Currency},
		},
		PaymentReceipt: d.PaymentReceipt,
		State:          domainbooking.BookingState(d.State),
		CreatedAt:      timestampToTime(d.CreatedAt),
		UpdatedAt:      timestampToTime(d.UpdatedAt),
		Version:        d.Version,
	}, nil
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
