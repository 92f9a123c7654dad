package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExternalEvent is a raw hosted-auth notification kept for auditing.
type ExternalEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Source    string             `bson:"source" json:"source"` // webhook|callback
	Status    string             `bson:"status" json:"status"`
	AccountID string             `bson:"account_id,omitempty" json:"account_id,omitempty"`
	CompanyID string             `bson:"company_id,omitempty" json:"company_id,omitempty"`

	Payload map[string]any `bson:"payload,omitempty" json:"payload,omitempty"`

	Outcome string `bson:"outcome" json:"outcome"` // linked|unknown_token|failed
	Error   string `bson:"error,omitempty" json:"error,omitempty"`

	ReceivedAt time.Time `bson:"received_at" json:"received_at"`
	ExpiresAt  time.Time `bson:"expires_at" json:"expires_at"` // for TTL index
}
