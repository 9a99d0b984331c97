package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is one completed checkout in the append-only ledger. Course holds
// the purchased ids in checkout order; TransactionID is the processor's
// payment-intent reference. Payments are never updated or deleted.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email         string             `bson:"email" json:"email"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	Price         float64            `bson:"price" json:"price"`
	Date          time.Time          `bson:"date" json:"date"`
	Course        []string           `bson:"course" json:"course"`
	ClassCount    int                `bson:"classCount,omitempty" json:"classCount,omitempty"`
}
