package payments

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/martial-dojo/backend/internal/models"
)

// CollectionName is the payments ledger collection.
const CollectionName = "payments"

// Repository handles payment persistence. The ledger is append-only: there
// are no update or delete operations.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository creates a payments repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(CollectionName)}
}

// Insert appends a payment to the ledger.
func (r *Repository) Insert(ctx context.Context, p *models.Payment) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

// ListByEmail returns all payments for the given email, newest first.
func (r *Repository) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.M{"date": -1})
	cursor, err := r.coll.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var list []models.Payment
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
