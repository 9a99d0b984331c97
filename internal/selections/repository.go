package selections

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/martial-dojo/backend/internal/models"
)

// CollectionName is the selections (cart) collection.
const CollectionName = "selections"

// Repository handles selection persistence.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository creates a selections repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(CollectionName)}
}

// ListByEmail returns all selections for the given email.
func (r *Repository) ListByEmail(ctx context.Context, email string) ([]models.Selection, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var list []models.Selection
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Insert creates a new selection document. No duplicate check: adding the
// same class twice yields two cart entries.
func (r *Repository) Insert(ctx context.Context, s *models.Selection) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, s)
	return err
}

// Delete removes the selection with the given id. Returns the number of
// documents deleted.
func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByIDs removes every selection whose id is in ids. Used by payment
// settlement. Returns the number of documents deleted.
func (r *Repository) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
