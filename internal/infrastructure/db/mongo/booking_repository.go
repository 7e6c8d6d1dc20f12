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

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
)

const collectionBookings = "bookings"

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(collectionBookings)}
}

type messageDoc struct {
	Sender    string    `bson:"sender"`
	Text      string    `bson:"text"`
	Timestamp time.Time `bson:"timestamp"`
}

type bookingDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	CustomerID string             `bson:"customer_id"`
	VendorID   string             `bson:"vendor_id"`

	CustomerName  string `bson:"customer_name"`
	CustomerEmail string `bson:"customer_email"`
	CustomerPhone string `bson:"customer_phone"`
	VendorName    string `bson:"vendor_name"`
	VendorService string `bson:"vendor_service"`

	EventDate  time.Time `bson:"event_date"`
	EventType  string    `bson:"event_type"`
	GuestCount int       `bson:"guest_count"`
	Budget     float64   `bson:"budget"`

	Status             string     `bson:"status"`
	VendorResponse     string     `bson:"vendor_response,omitempty"`
	VendorResponseDate *time.Time `bson:"vendor_response_date,omitempty"`
	ConfirmationDate   *time.Time `bson:"confirmation_date,omitempty"`
	RejectionReason    string     `bson:"rejection_reason,omitempty"`
	RejectionDate      *time.Time `bson:"rejection_date,omitempty"`
	CancellationReason string     `bson:"cancellation_reason,omitempty"`
	CancellationDate   *time.Time `bson:"cancellation_date,omitempty"`
	CompletionNotes    string     `bson:"completion_notes,omitempty"`
	CompletionDate     *time.Time `bson:"completion_date,omitempty"`

	Messages      []messageDoc `bson:"messages,omitempty"`
	LastUpdatedBy string       `bson:"last_updated_by"`

	PaymentStatus string  `bson:"payment_status,omitempty"`
	PaymentAmount float64 `bson:"payment_amount,omitempty"`

	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func bookingToDoc(b *domain.Booking) bookingDoc {
	doc := bookingDoc{
		CustomerID:         b.CustomerID,
		VendorID:           b.VendorID,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		CustomerPhone:      b.CustomerPhone,
		VendorName:         b.VendorName,
		VendorService:      b.VendorService,
		EventDate:          b.EventDate,
		EventType:          b.EventType,
		GuestCount:         b.GuestCount,
		Budget:             b.Budget,
		Status:             string(b.Status),
		VendorResponse:     b.VendorResponse,
		VendorResponseDate: b.VendorResponseDate,
		ConfirmationDate:   b.ConfirmationDate,
		RejectionReason:    b.RejectionReason,
		RejectionDate:      b.RejectionDate,
		CancellationReason: b.CancellationReason,
		CancellationDate:   b.CancellationDate,
		CompletionNotes:    b.CompletionNotes,
		CompletionDate:     b.CompletionDate,
		LastUpdatedBy:      b.LastUpdatedBy,
		PaymentStatus:      b.PaymentStatus,
		PaymentAmount:      b.PaymentAmount,
		Version:            b.Version,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
	for _, m := range b.Messages {
		doc.Messages = append(doc.Messages, messageDoc(m))
	}
	return doc
}

func (d *bookingDoc) toDomain() *domain.Booking {
	b := &domain.Booking{
		ID:                 d.ID.Hex(),
		CustomerID:         d.CustomerID,
		VendorID:           d.VendorID,
		CustomerName:       d.CustomerName,
		CustomerEmail:      d.CustomerEmail,
		CustomerPhone:      d.CustomerPhone,
		VendorName:         d.VendorName,
		VendorService:      d.VendorService,
		EventDate:          d.EventDate,
		EventType:          d.EventType,
		GuestCount:         d.GuestCount,
		Budget:             d.Budget,
		Status:             domain.BookingStatus(d.Status),
		VendorResponse:     d.VendorResponse,
		VendorResponseDate: d.VendorResponseDate,
		ConfirmationDate:   d.ConfirmationDate,
		RejectionReason:    d.RejectionReason,
		RejectionDate:      d.RejectionDate,
		CancellationReason: d.CancellationReason,
		CancellationDate:   d.CancellationDate,
		CompletionNotes:    d.CompletionNotes,
		CompletionDate:     d.CompletionDate,
		LastUpdatedBy:      d.LastUpdatedBy,
		PaymentStatus:      d.PaymentStatus,
		PaymentAmount:      d.PaymentAmount,
		Version:            d.Version,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	for _, m := range d.Messages {
		b.Messages = append(b.Messages, domain.Message(m))
	}
	return b
}

func bookingID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrBookingNotFound
	}
	return oid, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bookingToDoc(b)
	doc.Version = 1
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	created := *b
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.Version = 1
	return &created, nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	oid, err := bookingID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bookingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Booking, error) {
	return r.list(ctx, bson.M{"customer_id": customerID})
}

func (r *BookingRepository) ListByVendor(ctx context.Context, vendorID string) ([]*domain.Booking, error) {
	return r.list(ctx, bson.M{"vendor_id": vendorID})
}

func (r *BookingRepository) List(ctx context.Context) ([]*domain.Booking, error) {
	return r.list(ctx, bson.M{})
}

func (r *BookingRepository) list(ctx context.Context, filter bson.M) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Booking
	for cursor.Next(ctx) {
		var doc bookingDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode booking: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

// Update replaces the document conditionally on the version it was read at.
// A matched count of zero with the booking still present means another writer
// won the race.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	oid, err := bookingID(b.ID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bookingToDoc(b)
	doc.Version = b.Version + 1
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid, "version": b.Version}, doc)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if res.MatchedCount == 0 {
		if n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}); err == nil && n == 0 {
			return domain.ErrBookingNotFound
		}
		return domain.ErrStaleBooking
	}
	b.Version = doc.Version
	return nil
}

// CountByStatus aggregates per-status booking counts for one vendor.
func (r *BookingRepository) CountByStatus(ctx context.Context, vendorID string) (map[domain.BookingStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "vendor_id", Value: vendorID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[domain.BookingStatus]int64)
	for cursor.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode count: %w", err)
		}
		counts[domain.BookingStatus(row.Status)] = row.Count
	}
	return counts, cursor.Err()
}

// EnsureIndexes creates the lookup indexes the list endpoints depend on.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "vendor_id", Value: 1}, {Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
