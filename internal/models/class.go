package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ClassStatus is the approval state of a class in the catalog.
type ClassStatus string

const (
	ClassStatusPending  ClassStatus = "pending"
	ClassStatusApproved ClassStatus = "approved"
	ClassStatusDenied   ClassStatus = "denied"
)

// Class represents a martial-arts class in the catalog. Instructors create
// classes in pending state; admins approve or deny them and may attach
// feedback. Enrollment counters are mutated only by payment settlement.
// availableSeats >= 0 and enrolled <= capacity are not enforced anywhere.
type Class struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Image           string             `bson:"image,omitempty" json:"image,omitempty"`
	InstructorName  string             `bson:"instructorName,omitempty" json:"instructorName,omitempty"`
	InstructorEmail string             `bson:"instructorEmail" json:"instructorEmail"`
	Price           float64            `bson:"price" json:"price"`
	AvailableSeats  int                `bson:"availableSeats" json:"availableSeats"`
	Enrolled        int                `bson:"enrolled" json:"enrolled"`
	Status          ClassStatus        `bson:"status" json:"status"`
	Feedback        string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
}
