package users

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/martial-dojo/backend/internal/models"
)

// CollectionName is the users collection.
const CollectionName = "users"

// Repository handles user persistence.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository creates a users repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(CollectionName)}
}

// List returns all users.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var list []models.User
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListByRole returns all users with the given role.
func (r *Repository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var list []models.User
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FindByEmail returns the user with the given email, or nil when absent.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// RoleByEmail returns the stored role for an email. An absent user has
// RoleNone. Satisfies middleware.RoleReader.
func (r *Repository) RoleByEmail(ctx context.Context, email string) (models.Role, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil {
		return models.RoleNone, err
	}
	if u == nil {
		return models.RoleNone, nil
	}
	return u.Role, nil
}

// Insert creates a new user document.
func (r *Repository) Insert(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, u)
	return err
}

// UpdateRole overwrites the role of the user with the given id. Returns the
// number of documents modified.
func (r *Repository) UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes the user with the given id. Returns the number of documents
// deleted.
func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
