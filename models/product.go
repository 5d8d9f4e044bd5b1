package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry stored in MongoDB. Image holds the durable
// S3 URL returned on upload.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Image       string             `json:"image" bson:"image"`
	Category    string             `json:"category" bson:"category"`
	IsFeatured  bool               `json:"is_featured" bson:"is_featured"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateProductRequest is the admin payload for adding a catalog entry.
// Image is an optional base64 data URI; it is uploaded to the image store
// and replaced by its durable URL.
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=200"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Image       string  `json:"image"`
	Category    string  `json:"category" binding:"required"`
}
