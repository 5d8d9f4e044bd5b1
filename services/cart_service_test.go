package services

import (
	"context"
	"testing"

	"storefront-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestCartService() (*CartService, *fakeCartRepo, *fakeProductRepo) {
	carts := newFakeCartRepo()
	products := newFakeProductRepo()
	return NewCartService(carts, products, zap.NewNop()), carts, products
}

func seedProduct(products *fakeProductRepo, name string, price float64) models.Product {
	p := models.Product{ID: primitive.NewObjectID(), Name: name, Price: price}
	products.products[p.ID] = p
	return p
}

func TestAddItemMergesDuplicates(t *testing.T) {
	svc, carts, products := newTestCartService()
	ctx := context.Background()
	userID := uuid.New()
	p := seedProduct(products, "Keyboard", 49.99)

	require.NoError(t, svc.AddItem(ctx, userID, p.ID.Hex()))
	require.NoError(t, svc.AddItem(ctx, userID, p.ID.Hex()))

	assert.Len(t, carts.items, 1, "same product must never occupy two rows")
	item, err := carts.FindByUserAndProduct(ctx, userID, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
}

func TestAddItemSeparateProducts(t *testing.T) {
	svc, carts, products := newTestCartService()
	ctx := context.Background()
	userID := uuid.New()
	p1 := seedProduct(products, "Keyboard", 49.99)
	p2 := seedProduct(products, "Mouse", 19.99)

	require.NoError(t, svc.AddItem(ctx, userID, p1.ID.Hex()))
	require.NoError(t, svc.AddItem(ctx, userID, p2.ID.Hex()))

	assert.Len(t, carts.items, 2)
}

func TestUpdateQuantityZeroRemovesEntry(t *testing.T) {
	svc, carts, products := newTestCartService()
	ctx := context.Background()
	userID := uuid.New()
	p := seedProduct(products, "Keyboard", 49.99)

	require.NoError(t, svc.AddItem(ctx, userID, p.ID.Hex()))
	require.NoError(t, svc.UpdateQuantity(ctx, userID, p.ID.Hex(), 0))

	assert.Empty(t, carts.items)
}

func TestUpdateQuantitySetsDirectly(t *testing.T) {
	svc, carts, products := newTestCartService()
	ctx := context.Background()
	userID := uuid.New()
	p := seedProduct(products, "Keyboard", 49.99)

	require.NoError(t, svc.AddItem(ctx, userID, p.ID.Hex()))
	require.NoError(t, svc.UpdateQuantity(ctx, userID, p.ID.Hex(), 5))

	item, err := carts.FindByUserAndProduct(ctx, userID, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
}

func TestUpdateQuantityMissingEntry(t *testing.T) {
	svc, _, _ := newTestCartService()

	err := svc.UpdateQuantity(context.Background(), uuid.New(), primitive.NewObjectID().Hex(), 3)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestGetCartJoinsCatalogData(t *testing.T) {
	svc, _, products := newTestCartService()
	ctx := context.Background()
	userID := uuid.New()
	p := seedProduct(products, "Keyboard", 49.99)

	require.NoError(t, svc.AddItem(ctx, userID, p.ID.Hex()))
	require.NoError(t, svc.AddItem(ctx, userID, p.ID.Hex()))

	lines, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Keyboard", lines[0].Product.Name)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestGetCartDropsStaleEntries(t *testing.T) {
	svc, carts, products := newTestCartService()
	ctx := context.Background()
	userID := uuid.New()
	p := seedProduct(products, "Keyboard", 49.99)

	require.NoError(t, svc.AddItem(ctx, userID, p.ID.Hex()))
	delete(products.products, p.ID)

	lines, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, lines, "deleted products must not surface in the cart view")
	assert.Len(t, carts.items, 1, "the stored entry itself stays put")
}

func TestRemoveSingleProduct(t *testing.T) {
	svc, carts, products := newTestCartService()
	ctx := context.Background()
	userID := uuid.New()
	p1 := seedProduct(products, "Keyboard", 49.99)
	p2 := seedProduct(products, "Mouse", 19.99)

	require.NoError(t, svc.AddItem(ctx, userID, p1.ID.Hex()))
	require.NoError(t, svc.AddItem(ctx, userID, p2.ID.Hex()))

	require.NoError(t, svc.Remove(ctx, userID, p1.ID.Hex()))
	assert.Len(t, carts.items, 1)
}

func TestRemoveAllEmptiesCart(t *testing.T) {
	svc, carts, products := newTestCartService()
	ctx := context.Background()
	userID := uuid.New()
	p1 := seedProduct(products, "Keyboard", 49.99)
	p2 := seedProduct(products, "Mouse", 19.99)

	require.NoError(t, svc.AddItem(ctx, userID, p1.ID.Hex()))
	require.NoError(t, svc.AddItem(ctx, userID, p2.ID.Hex()))

	require.NoError(t, svc.Remove(ctx, userID, ""))
	assert.Empty(t, carts.items)
}
