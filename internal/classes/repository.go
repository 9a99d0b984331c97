package classes

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/martial-dojo/backend/internal/models"
)

// CollectionName is the classes collection.
const CollectionName = "classes"

// Repository handles class persistence.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository creates a classes repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(CollectionName)}
}

func (r *Repository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Class, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var list []models.Class
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// List returns the whole catalog.
func (r *Repository) List(ctx context.Context) ([]models.Class, error) {
	return r.find(ctx, bson.M{})
}

// ListApproved returns classes with status approved.
func (r *Repository) ListApproved(ctx context.Context) ([]models.Class, error) {
	return r.find(ctx, bson.M{"status": models.ClassStatusApproved})
}

// ListPopular returns up to limit approved classes ordered by enrollment
// descending.
func (r *Repository) ListPopular(ctx context.Context, limit int64) ([]models.Class, error) {
	opts := options.Find().SetSort(bson.M{"enrolled": -1}).SetLimit(limit)
	return r.find(ctx, bson.M{"status": models.ClassStatusApproved}, opts)
}

// ListByInstructor returns classes for the given instructor email, or the
// whole catalog when email is empty.
func (r *Repository) ListByInstructor(ctx context.Context, email string) ([]models.Class, error) {
	filter := bson.M{}
	if email != "" {
		filter["instructorEmail"] = email
	}
	return r.find(ctx, filter)
}

// Insert creates a new class document.
func (r *Repository) Insert(ctx context.Context, cl *models.Class) error {
	if cl.ID.IsZero() {
		cl.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, cl)
	return err
}

// UpdateFeedback overwrites the feedback text of a class.
func (r *Repository) UpdateFeedback(ctx context.Context, id primitive.ObjectID, feedback string) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"feedback": feedback}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// UpdateStatus overwrites the approval status of a class.
func (r *Repository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ClassStatus) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ApplyEnrollment decrements availableSeats and increments enrolled by one on
// every class in ids. Used by payment settlement. Seats are allowed to go
// negative; capacity is not enforced anywhere.
func (r *Repository) ApplyEnrollment(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	update := bson.M{"$inc": bson.M{"availableSeats": -1, "enrolled": 1}}
	_, err := r.coll.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, update)
	return err
}
