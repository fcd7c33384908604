package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Declaration represents a reusable document template. Body and footer may
// contain {{token}} placeholders substituted at generation time. The core
// never mutates declarations.
type Declaration struct {
	ID     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title  string             `json:"title" bson:"title"`
	Body   string             `json:"body" bson:"body"`
	Footer string             `json:"footer" bson:"footer"`
}
