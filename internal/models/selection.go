package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Selection is a user's not-yet-paid intent to enroll in a class (a cart
// entry). It carries a denormalized snapshot of the class fields the cart UI
// shows; the catalog document stays authoritative. Selections are removed
// individually by the user or in bulk when a payment settles.
type Selection struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email   string             `bson:"email" json:"email"`
	ClassID string             `bson:"classId" json:"classId"`
	Name    string             `bson:"name,omitempty" json:"name,omitempty"`
	Image   string             `bson:"image,omitempty" json:"image,omitempty"`
	Price   float64            `bson:"price,omitempty" json:"price,omitempty"`
}
