package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Worker is a municipal field worker issues get assigned to. Workers are
// provisioned out-of-band (seeding or admin tooling) and are read-only from
// the perspective of issue operations.
type Worker struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Area      string             `bson:"area" json:"area"`
	AvatarURL string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
