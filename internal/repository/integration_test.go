package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltkart/storefront-api/internal/model"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	cleanupTable(t, "wishlist", "orders", "users")

	repo := NewUserRepository(testPool)
	ctx := context.Background()

	user := &model.User{
		Name: "Asha Rao", Email: "asha@example.com",
		MobileNumber: "5551234567", PasswordHash: "hashed",
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	found, err := repo.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	found, err = repo.GetByMobile(ctx, "5551234567")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	cleanupTable(t, "wishlist", "orders", "users")

	repo := NewUserRepository(testPool)
	ctx := context.Background()

	first := &model.User{
		Name: "Asha Rao", Email: "asha@example.com",
		MobileNumber: "5551234567", PasswordHash: "hashed",
	}
	require.NoError(t, repo.Create(ctx, first))

	dup := &model.User{
		Name: "Other", Email: "asha@example.com",
		MobileNumber: "5559876543", PasswordHash: "hashed",
	}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepo_Address(t *testing.T) {
	cleanupTable(t, "wishlist", "orders", "users")

	repo := NewUserRepository(testPool)
	ctx := context.Background()

	user := &model.User{
		Name: "Asha Rao", Email: "asha@example.com",
		MobileNumber: "5551234567", PasswordHash: "hashed",
	}
	require.NoError(t, repo.Create(ctx, user))

	addr := model.Address{
		Street: "12 Hill Rd", City: "Pune", State: "MH",
		Zip: "411001", Country: "India",
	}
	require.NoError(t, repo.UpdateAddress(ctx, user.ID, addr))

	got, err := repo.GetAddress(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, addr, *got)
}

func TestProductRepo_CategoryNormalization(t *testing.T) {
	cleanupTable(t, "wishlist", "orders", "allproducts")

	repo := NewProductRepository(testPool)
	ctx := context.Background()

	seedProduct(t, "Galaxy Watch 5", "Smart Watch", "Samsung", 279.99, 50)

	// Spacing and casing do not matter for category lookups.
	for _, spelling := range []string{"Smart Watch", "smartwatch", "SMART WATCH", "smart watch"} {
		products, err := repo.ByCategory(ctx, spelling)
		require.NoError(t, err, spelling)
		assert.Len(t, products, 1, spelling)
	}

	exists, err := repo.CategoryExists(ctx, "smartwatch")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.CategoryExists(ctx, "refrigerators")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProductRepo_Search(t *testing.T) {
	cleanupTable(t, "wishlist", "orders", "allproducts")

	repo := NewProductRepository(testPool)
	ctx := context.Background()

	seedProduct(t, "Galaxy Watch 5", "Smart Watch", "Samsung", 279.99, 50)
	seedProduct(t, "Aurora Earbuds", "Earphones", "Soundline", 49.99, 200)

	// Matches against normalized name and normalized category alike.
	byName, err := repo.Search(ctx, "galaxywatch")
	require.NoError(t, err)
	assert.Len(t, byName, 1)

	byCategory, err := repo.Search(ctx, "earphones")
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	none, err := repo.Search(ctx, "toaster")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOrderRepo_InsertBatch(t *testing.T) {
	cleanupTable(t, "wishlist", "orders", "allproducts", "users")

	userRepo := NewUserRepository(testPool)
	orderRepo := NewOrderRepository(testPool)
	ctx := context.Background()

	user := &model.User{
		Name: "Asha Rao", Email: "asha@example.com",
		MobileNumber: "5551234567", PasswordHash: "hashed",
	}
	require.NoError(t, userRepo.Create(ctx, user))
	productID := seedProduct(t, "Galaxy Watch 5", "Smart Watch", "Samsung", 279.99, 50)

	address := `{"street":"12 Hill Rd","city":"Pune","state":"MH","zip":"411001","country":"India"}`
	orders := []*model.Order{
		{OrderCode: "ORD-100001", UserID: user.ID, ProductID: productID, Quantity: 1,
			FinalPrice: decimal.NullDecimal{Decimal: decimal.RequireFromString("279.99"), Valid: true},
			Address:    address},
		{OrderCode: "ORD-100002", UserID: user.ID, ProductID: productID, Quantity: 2,
			FinalPrice: decimal.NullDecimal{Decimal: decimal.RequireFromString("559.98"), Valid: true},
			Address:    address},
	}
	require.NoError(t, orderRepo.InsertBatch(ctx, orders))
	for _, o := range orders {
		assert.NotZero(t, o.ID)
		assert.False(t, o.CreatedAt.IsZero())
	}

	listed, err := orderRepo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	// The address snapshot comes back byte for byte.
	assert.Equal(t, address, listed[0].Address)
}

func TestWishlistRepo_UniquePair(t *testing.T) {
	cleanupTable(t, "wishlist", "orders", "allproducts", "users")

	userRepo := NewUserRepository(testPool)
	wishlistRepo := NewWishlistRepository(testPool)
	ctx := context.Background()

	user := &model.User{
		Name: "Asha Rao", Email: "asha@example.com",
		MobileNumber: "5551234567", PasswordHash: "hashed",
	}
	require.NoError(t, userRepo.Create(ctx, user))
	productID := seedProduct(t, "Galaxy Watch 5", "Smart Watch", "Samsung", 279.99, 50)

	inserted, err := wishlistRepo.Add(ctx, user.ID, productID)
	require.NoError(t, err)
	assert.True(t, inserted)

	// The unique constraint absorbs the duplicate without an error.
	inserted, err = wishlistRepo.Add(ctx, user.ID, productID)
	require.NoError(t, err)
	assert.False(t, inserted)

	contains, err := wishlistRepo.Contains(ctx, user.ID, productID)
	require.NoError(t, err)
	assert.True(t, contains)

	products, err := wishlistRepo.Products(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)

	removed, err := wishlistRepo.Remove(ctx, user.ID, productID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = wishlistRepo.Remove(ctx, user.ID, productID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestProductRepo_DecrementStock(t *testing.T) {
	cleanupTable(t, "wishlist", "orders", "allproducts")

	repo := NewProductRepository(testPool)
	ctx := context.Background()

	productID := seedProduct(t, "Galaxy Watch 5", "Smart Watch", "Samsung", 279.99, 5)

	tx, err := testPool.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.DecrementStock(ctx, tx, productID, 3))
	require.NoError(t, tx.Commit(ctx))

	product, err := repo.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 2, product.Stocks)

	// Decrementing past zero fails and keeps the row unchanged.
	tx, err = testPool.Begin(ctx)
	require.NoError(t, err)
	err = repo.DecrementStock(ctx, tx, productID, 3)
	assert.Error(t, err)
	require.NoError(t, tx.Rollback(ctx))

	product, err = repo.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 2, product.Stocks)
}
