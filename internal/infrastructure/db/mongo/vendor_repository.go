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

const collectionVendors = "vendor_profiles"

type VendorRepository struct {
	col *mongo.Collection
}

func NewVendorRepository(db *mongo.Database) *VendorRepository {
	return &VendorRepository{col: db.Collection(collectionVendors)}
}

type vendorDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	AccountID       string             `bson:"account_id"`
	BusinessName    string             `bson:"business_name"`
	OwnerName       string             `bson:"owner_name"`
	Email           string             `bson:"email"`
	Phone           string             `bson:"phone"`
	ServiceCategory string             `bson:"service_category"`
	Address         string             `bson:"address"`
	City            string             `bson:"city"`
	State           string             `bson:"state"`
	ZipCode         string             `bson:"zip_code"`
	IsActive        bool               `bson:"is_active"`
	IsVerified      bool               `bson:"is_verified"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func vendorToDoc(v *domain.VendorProfile) vendorDoc {
	return vendorDoc{
		AccountID:       v.AccountID,
		BusinessName:    v.BusinessName,
		OwnerName:       v.OwnerName,
		Email:           v.Email,
		Phone:           v.Phone,
		ServiceCategory: v.ServiceCategory,
		Address:         v.Address,
		City:            v.City,
		State:           v.State,
		ZipCode:         v.ZipCode,
		IsActive:        v.IsActive,
		IsVerified:      v.IsVerified,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func (d *vendorDoc) toDomain() *domain.VendorProfile {
	return &domain.VendorProfile{
		ID:              d.ID.Hex(),
		AccountID:       d.AccountID,
		BusinessName:    d.BusinessName,
		OwnerName:       d.OwnerName,
		Email:           d.Email,
		Phone:           d.Phone,
		ServiceCategory: d.ServiceCategory,
		Address:         d.Address,
		City:            d.City,
		State:           d.State,
		ZipCode:         d.ZipCode,
		IsActive:        d.IsActive,
		IsVerified:      d.IsVerified,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func vendorID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrVendorNotFound
	}
	return oid, nil
}

func (r *VendorRepository) Create(ctx context.Context, v *domain.VendorProfile) (*domain.VendorProfile, error) {
	res, err := r.col.InsertOne(ctx, vendorToDoc(v))
	if err != nil {
		return nil, fmt.Errorf("insert vendor profile: %w", err)
	}

	created := *v
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *VendorRepository) FindByID(ctx context.Context, id string) (*domain.VendorProfile, error) {
	oid, err := vendorID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc vendorDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, fmt.Errorf("find vendor: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *VendorRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.VendorProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc vendorDoc
	if err := r.col.FindOne(ctx, bson.M{"account_id": accountID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, fmt.Errorf("find vendor by account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *VendorRepository) Update(ctx context.Context, v *domain.VendorProfile) error {
	oid, err := vendorID(v.ID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := vendorToDoc(v)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("update vendor profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

func (r *VendorRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.setFlag(ctx, id, "is_active", active)
}

func (r *VendorRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	return r.setFlag(ctx, id, "is_verified", verified)
}

func (r *VendorRepository) setFlag(ctx context.Context, id, field string, value bool) error {
	oid, err := vendorID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{field: value, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

func (r *VendorRepository) List(ctx context.Context) ([]*domain.VendorProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "business_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.VendorProfile
	for cursor.Next(ctx) {
		var doc vendorDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode vendor: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

// EnsureIndexes enforces one profile per account and speeds up the login gate
// lookup.
func (r *VendorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "service_category", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
