package repository

import (
	"context"
	"time"

	"storefront-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	FindFeatured(ctx context.Context) ([]models.Product, error)
	FindByCategory(ctx context.Context, category string) ([]models.Product, error)
	Sample(ctx context.Context, size int) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoProductRepository implements ProductRepository against the
// "products" collection.
type MongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository creates a new MongoProductRepository.
func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &MongoProductRepository{collection: db.Collection("products")}
}

// FindAll returns the entire catalog.
func (r *MongoProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID retrieves one product.
func (r *MongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs retrieves the products matching the given identity set. IDs
// with no matching product are simply absent from the result; the cart
// aggregator relies on that to drop stale entries.
func (r *MongoProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindFeatured returns products flagged as featured.
func (r *MongoProductRepository) FindFeatured(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"is_featured": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindByCategory returns products in a category.
func (r *MongoProductRepository) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"category": category})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Sample returns `size` random products with a reduced field set.
func (r *MongoProductRepository) Sample(ctx context.Context, size int) ([]models.Product, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.M{"size": size}}},
		{{Key: "$project", Value: bson.M{
			"_id":         1,
			"name":        1,
			"description": 1,
			"price":       1,
			"image":       1,
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a new product and fills in its generated ID.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, product)
	return err
}

// SetFeatured updates the featured flag on a product.
func (r *MongoProductRepository) SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) error {
	update := bson.M{"$set": bson.M{"is_featured": featured, "updated_at": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a product. Cart entries referencing it are left in place
// and filtered out at read time.
func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
