package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-backend/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Map-backed fakes standing in for the real repositories.

type fakeUserRepo struct {
	users     map[uuid.UUID]*models.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeSessionRepo struct {
	slots map[string]string
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{slots: make(map[string]string)}
}

func (f *fakeSessionRepo) Put(_ context.Context, userID, refreshToken string, _ time.Duration) error {
	f.slots[userID] = refreshToken
	return nil
}

func (f *fakeSessionRepo) Get(_ context.Context, userID string) (string, error) {
	return f.slots[userID], nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, userID string) error {
	delete(f.slots, userID)
	return nil
}

type fakeCartRepo struct {
	items map[uuid.UUID]*models.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[uuid.UUID]*models.CartItem)}
}

func (f *fakeCartRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeCartRepo) FindByUserAndProduct(_ context.Context, userID uuid.UUID, productID string) (*models.CartItem, error) {
	for _, item := range f.items {
		if item.UserID == userID && item.ProductID == productID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) Create(_ context.Context, item *models.CartItem) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeCartRepo) UpdateQuantity(_ context.Context, itemID uuid.UUID, quantity int) error {
	if item, ok := f.items[itemID]; ok {
		item.Quantity = quantity
	}
	return nil
}

func (f *fakeCartRepo) Delete(_ context.Context, itemID uuid.UUID) error {
	delete(f.items, itemID)
	return nil
}

func (f *fakeCartRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for id, item := range f.items {
		if item.UserID == userID {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *fakeCartRepo) DeleteByUserAndProduct(_ context.Context, userID uuid.UUID, productID string) error {
	for id, item := range f.items {
		if item.UserID == userID && item.ProductID == productID {
			delete(f.items, id)
		}
	}
	return nil
}

// fakeCouponRepo keys rows by user, mirroring the unique index on user_id.
type fakeCouponRepo struct {
	rows      map[uuid.UUID]*models.Coupon
	createErr error
}

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{rows: make(map[uuid.UUID]*models.Coupon)}
}

func (f *fakeCouponRepo) Create(_ context.Context, coupon *models.Coupon) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.rows[coupon.UserID]; exists {
		return fmt.Errorf("duplicate coupon for user %s", coupon.UserID)
	}
	f.rows[coupon.UserID] = coupon
	return nil
}

func (f *fakeCouponRepo) FindActiveByUser(_ context.Context, userID uuid.UUID) (*models.Coupon, error) {
	if c, ok := f.rows[userID]; ok && c.IsActive {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCouponRepo) FindByCodeAndUser(_ context.Context, code string, userID uuid.UUID, activeOnly bool) (*models.Coupon, error) {
	c, ok := f.rows[userID]
	if !ok || !strings.EqualFold(c.Code, code) {
		return nil, gorm.ErrRecordNotFound
	}
	if activeOnly && !c.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCouponRepo) FindByUser(_ context.Context, userID uuid.UUID) (*models.Coupon, error) {
	if c, ok := f.rows[userID]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCouponRepo) Save(_ context.Context, coupon *models.Coupon) error {
	f.rows[coupon.UserID] = coupon
	return nil
}

func (f *fakeCouponRepo) Deactivate(_ context.Context, code string, userID uuid.UUID) error {
	c, ok := f.rows[userID]
	if !ok || !strings.EqualFold(c.Code, code) {
		return gorm.ErrRecordNotFound
	}
	c.IsActive = false
	return nil
}

// fakeOrderRepo rejects duplicate session IDs like the unique index does.
type fakeOrderRepo struct {
	orders map[string]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*models.Order)}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	if _, exists := f.orders[order.StripeSessionID]; exists {
		return fmt.Errorf("duplicate key value violates unique constraint")
	}
	f.orders[order.StripeSessionID] = order
	return nil
}

func (f *fakeOrderRepo) FindByStripeSessionID(_ context.Context, sessionID string) (*models.Order, error) {
	if o, ok := f.orders[sessionID]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeProductRepo struct {
	products map[primitive.ObjectID]models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[primitive.ObjectID]models.Product)}
}

func (f *fakeProductRepo) FindAll(_ context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return &p, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeProductRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindFeatured(_ context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindByCategory(_ context.Context, category string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Sample(_ context.Context, size int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if len(out) == size {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) Create(_ context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) SetFeatured(_ context.Context, id primitive.ObjectID, featured bool) error {
	p, ok := f.products[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.IsFeatured = featured
	f.products[id] = p
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.products[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.products, id)
	return nil
}

type fakeFeaturedCache struct {
	stored []models.Product
	hit    bool
}

func (f *fakeFeaturedCache) Get(_ context.Context) ([]models.Product, bool, error) {
	return f.stored, f.hit, nil
}

func (f *fakeFeaturedCache) Set(_ context.Context, products []models.Product) error {
	f.stored = products
	f.hit = true
	return nil
}

type fakeImageStore struct {
	uploaded []string
	deleted  []string
	failNext bool
}

func (f *fakeImageStore) Upload(_ context.Context, dataURI string) (string, error) {
	if f.failNext {
		return "", fmt.Errorf("upload unavailable")
	}
	url := fmt.Sprintf("https://images.example.com/%d", len(f.uploaded))
	f.uploaded = append(f.uploaded, dataURI)
	return url, nil
}

func (f *fakeImageStore) Delete(_ context.Context, imageURL string) error {
	if f.failNext {
		return fmt.Errorf("delete unavailable")
	}
	f.deleted = append(f.deleted, imageURL)
	return nil
}

// fakeGateway records created sessions and serves preset ones on retrieval.
type fakeGateway struct {
	created  []CheckoutSessionParams
	sessions map[string]*GatewaySession
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: make(map[string]*GatewaySession)}
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, params CheckoutSessionParams) (*GatewaySession, error) {
	f.created = append(f.created, params)
	sess := &GatewaySession{
		ID:       fmt.Sprintf("cs_test_%d", len(f.created)),
		Metadata: params.Metadata,
	}
	f.sessions[sess.ID] = sess
	return sess, nil
}

func (f *fakeGateway) RetrieveCheckoutSession(_ context.Context, sessionID string) (*GatewaySession, error) {
	if sess, ok := f.sessions[sessionID]; ok {
		return sess, nil
	}
	return nil, fmt.Errorf("no such session: %s", sessionID)
}
