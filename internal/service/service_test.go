package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/swagshop/internal/domain"
	"github.com/utafrali/swagshop/internal/event"
	redisrepo "github.com/utafrali/swagshop/internal/repository/redis"
	apperrors "github.com/utafrali/swagshop/pkg/errors"
)

// --- Mocks ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

type mockWishListRepository struct {
	mock.Mock
}

func (m *mockWishListRepository) Create(ctx context.Context, wishList *domain.WishList) error {
	args := m.Called(ctx, wishList)
	return args.Error(0)
}

func (m *mockWishListRepository) AddProduct(ctx context.Context, wishListID, productID string) error {
	args := m.Called(ctx, wishListID, productID)
	return args.Error(0)
}

func (m *mockWishListRepository) List(ctx context.Context) ([]domain.WishListDetail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WishListDetail), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockPublisher) PublishWishListCreated(ctx context.Context, wishList *domain.WishList) error {
	return m.Called(ctx, wishList).Error(0)
}

func (m *mockPublisher) PublishProductAddedToWishList(ctx context.Context, wishListID, productID string) error {
	return m.Called(ctx, wishListID, productID).Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newStoreBackedServices wires both services to a real repository on
// miniredis.
func newStoreBackedServices(t *testing.T) (*ProductService, *WishListService) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := newTestLogger()
	return NewProductService(redisrepo.NewProductRepository(client), event.Discard{}, logger),
		NewWishListService(redisrepo.NewWishListRepository(client), event.Discard{}, logger)
}

// --- Products ---

func TestCreateProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	events := new(mockPublisher)
	svc := NewProductService(repo, events, newTestLogger())

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Title == "Mug" && p.Price == 10
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Product).ID = "p1"
	}).Return(nil)
	events.On("PublishProductCreated", mock.Anything, mock.Anything).Return(nil)

	p, err := svc.CreateProduct(context.Background(), domain.CreateProductInput{Title: "Mug", Price: 10})
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestCreateProduct_StoreFailure(t *testing.T) {
	repo := new(mockProductRepository)
	events := new(mockPublisher)
	svc := NewProductService(repo, events, newTestLogger())

	storeErr := errors.New("write failed")
	repo.On("Create", mock.Anything, mock.Anything).Return(storeErr)

	p, err := svc.CreateProduct(context.Background(), domain.CreateProductInput{Title: "Mug"})
	assert.Nil(t, p)

	var creationErr *CreationError
	require.ErrorAs(t, err, &creationErr)
	assert.Equal(t, "product", creationErr.Resource)
	assert.ErrorIs(t, err, storeErr)
	events.AssertNotCalled(t, "PublishProductCreated", mock.Anything, mock.Anything)
}

func TestCreateProduct_PublishFailureIsIgnored(t *testing.T) {
	repo := new(mockProductRepository)
	events := new(mockPublisher)
	svc := NewProductService(repo, events, newTestLogger())

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	events.On("PublishProductCreated", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	p, err := svc.CreateProduct(context.Background(), domain.CreateProductInput{Title: "Mug", Price: 10})
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Title)
}

func TestCreateProduct_AbsentFieldsAreZero(t *testing.T) {
	products, _ := newStoreBackedServices(t)

	p, err := products.CreateProduct(context.Background(), domain.CreateProductInput{})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Empty(t, p.Title)
	assert.Zero(t, p.Price)
}

func TestListProducts_QueryError(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, event.Discard{}, newTestLogger())

	repo.On("List", mock.Anything).Return(nil, errors.New("read failed"))

	_, err := svc.ListProducts(context.Background())
	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "products", queryErr.Resource)
}

func TestCreateThenListProducts(t *testing.T) {
	products, _ := newStoreBackedServices(t)
	ctx := context.Background()

	_, err := products.CreateProduct(ctx, domain.CreateProductInput{Title: "Mug", Price: 10})
	require.NoError(t, err)

	list, err := products.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Mug", list[0].Title)
	assert.Equal(t, 10.0, list[0].Price)
}

// --- Wishlists ---

func TestCreateWishList_StoreFailure(t *testing.T) {
	repo := new(mockWishListRepository)
	svc := NewWishListService(repo, event.Discard{}, newTestLogger())

	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("write failed"))

	_, err := svc.CreateWishList(context.Background(), domain.CreateWishListInput{Title: "Gifts"})
	var creationErr *CreationError
	require.ErrorAs(t, err, &creationErr)
	assert.Equal(t, "wishlist", creationErr.Resource)
}

func TestCreateWishList_PublishesEvent(t *testing.T) {
	repo := new(mockWishListRepository)
	events := new(mockPublisher)
	svc := NewWishListService(repo, events, newTestLogger())

	repo.On("Create", mock.Anything, mock.MatchedBy(func(w *domain.WishList) bool {
		return w.Title == "Gifts" && w.ProductIDs != nil && len(w.ProductIDs) == 0
	})).Return(nil)
	events.On("PublishWishListCreated", mock.Anything, mock.Anything).Return(nil)

	w, err := svc.CreateWishList(context.Background(), domain.CreateWishListInput{Title: "Gifts"})
	require.NoError(t, err)
	assert.Equal(t, "Gifts", w.Title)
	events.AssertExpectations(t)
}

func TestCreateThenListWishLists(t *testing.T) {
	_, wishLists := newStoreBackedServices(t)
	ctx := context.Background()

	_, err := wishLists.CreateWishList(ctx, domain.CreateWishListInput{Title: "Gifts"})
	require.NoError(t, err)

	lists, err := wishLists.ListWishLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Gifts", lists[0].Title)
	assert.Empty(t, lists[0].Products)
}

func TestListWishLists_QueryError(t *testing.T) {
	repo := new(mockWishListRepository)
	svc := NewWishListService(repo, event.Discard{}, newTestLogger())

	repo.On("List", mock.Anything).Return(nil, errors.New("read failed"))

	_, err := svc.ListWishLists(context.Background())
	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "wishlists", queryErr.Resource)
}

func TestAddProductToWishList_Causes(t *testing.T) {
	tests := []struct {
		name      string
		repoErr   error
		wantCause Cause
	}{
		{name: "missing product", repoErr: apperrors.NotFound("product", "p1"), wantCause: CauseNotFound},
		{name: "store unavailable", repoErr: apperrors.Unavailable("redis", errors.New("connection refused")), wantCause: CauseStoreUnavailable},
		{name: "other failure", repoErr: errors.New("script error"), wantCause: CauseStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockWishListRepository)
			events := new(mockPublisher)
			svc := NewWishListService(repo, events, newTestLogger())

			repo.On("AddProduct", mock.Anything, "w1", "p1").Return(tt.repoErr)

			err := svc.AddProductToWishList(context.Background(), "p1", "w1")

			var assocErr *AssociationError
			require.ErrorAs(t, err, &assocErr)
			assert.Equal(t, tt.wantCause, assocErr.Cause)
			assert.Equal(t, "p1", assocErr.ProductID)
			assert.Equal(t, "w1", assocErr.WishListID)
			assert.ErrorIs(t, err, tt.repoErr)
			events.AssertNotCalled(t, "PublishProductAddedToWishList", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAddProductToWishList_PublishesEvent(t *testing.T) {
	repo := new(mockWishListRepository)
	events := new(mockPublisher)
	svc := NewWishListService(repo, events, newTestLogger())

	repo.On("AddProduct", mock.Anything, "w1", "p1").Return(nil)
	events.On("PublishProductAddedToWishList", mock.Anything, "w1", "p1").Return(errors.New("broker down"))

	require.NoError(t, svc.AddProductToWishList(context.Background(), "p1", "w1"))
	events.AssertExpectations(t)
}

func TestAddProductToWishList_Idempotent(t *testing.T) {
	products, wishLists := newStoreBackedServices(t)
	ctx := context.Background()

	mug, err := products.CreateProduct(ctx, domain.CreateProductInput{Title: "Mug", Price: 10})
	require.NoError(t, err)
	gifts, err := wishLists.CreateWishList(ctx, domain.CreateWishListInput{Title: "Gifts"})
	require.NoError(t, err)

	require.NoError(t, wishLists.AddProductToWishList(ctx, mug.ID, gifts.ID))
	once, err := wishLists.ListWishLists(ctx)
	require.NoError(t, err)

	require.NoError(t, wishLists.AddProductToWishList(ctx, mug.ID, gifts.ID))
	twice, err := wishLists.ListWishLists(ctx)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	require.Len(t, twice[0].Products, 1)
}

func TestAddProductToWishList_UnknownProductLeavesWishListUnchanged(t *testing.T) {
	_, wishLists := newStoreBackedServices(t)
	ctx := context.Background()

	gifts, err := wishLists.CreateWishList(ctx, domain.CreateWishListInput{Title: "Gifts"})
	require.NoError(t, err)

	err = wishLists.AddProductToWishList(ctx, "no-such-product", gifts.ID)
	var assocErr *AssociationError
	require.ErrorAs(t, err, &assocErr)
	assert.Equal(t, CauseNotFound, assocErr.Cause)

	lists, err := wishLists.ListWishLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Empty(t, lists[0].Products)
}

func TestAddProductToWishList_UnknownWishListSucceeds(t *testing.T) {
	products, wishLists := newStoreBackedServices(t)
	ctx := context.Background()

	mug, err := products.CreateProduct(ctx, domain.CreateProductInput{Title: "Mug", Price: 10})
	require.NoError(t, err)
	gifts, err := wishLists.CreateWishList(ctx, domain.CreateWishListInput{Title: "Gifts"})
	require.NoError(t, err)

	require.NoError(t, wishLists.AddProductToWishList(ctx, mug.ID, "no-such-wishlist"))

	lists, err := wishLists.ListWishLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, gifts.ID, lists[0].ID)
	assert.Empty(t, lists[0].Products)
}

func TestCause_String(t *testing.T) {
	assert.Equal(t, "not_found", CauseNotFound.String())
	assert.Equal(t, "store_unavailable", CauseStoreUnavailable.String())
}
