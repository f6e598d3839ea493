package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltkart/storefront-api/internal/dto"
	"github.com/voltkart/storefront-api/internal/model"
	"github.com/voltkart/storefront-api/internal/repository"
)

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email || u.MobileNumber == user.MobileNumber {
			return repository.ErrDuplicate
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetByMobile(_ context.Context, mobile string) (*model.User, error) {
	for _, u := range m.users {
		if u.MobileNumber == mobile {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, user *model.User) error {
	existing, ok := m.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	hash := existing.PasswordHash
	*existing = *user
	existing.PasswordHash = hash
	return nil
}

func (m *mockUserRepo) UpdateAddress(_ context.Context, userID int64, addr model.Address) error {
	u, ok := m.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Street, u.City, u.State, u.Zip, u.Country = addr.Street, addr.City, addr.State, addr.Zip, addr.Country
	return nil
}

func (m *mockUserRepo) GetAddress(_ context.Context, userID int64) (*model.Address, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	return &model.Address{Street: u.Street, City: u.City, State: u.State, Zip: u.Zip, Country: u.Country}, nil
}

func (m *mockUserRepo) SetProfilePic(_ context.Context, userID int64, filename string) error {
	u, ok := m.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.ProfilePic = filename
	return nil
}

func (m *mockUserRepo) GetEmailAndDiscount(_ context.Context, userID int64) (string, int, error) {
	u, ok := m.users[userID]
	if !ok {
		return "", 0, pgx.ErrNoRows
	}
	return u.Email, u.SpDiscount, nil
}

func (m *mockUserRepo) SaveCardDetails(_ context.Context, userID int64, cardNumber, cvv, expiryMonth, expiryYear string) error {
	u, ok := m.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.CardNumber, u.CVV, u.ExpiryMonth, u.ExpiryYear = cardNumber, cvv, expiryMonth, expiryYear
	u.SpDiscount = 1
	return nil
}

func TestAuthService_Register(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Asha Rao", Email: "asha@example.com",
		MobileNumber: "5551234567", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "User Registered Successfully!", resp.Message)
	assert.Equal(t, "Asha Rao", resp.User.Name)
	assert.NotZero(t, resp.User.ID)
	assert.NotEmpty(t, resp.Token)

	// The stored hash is bcrypt, never the plaintext.
	stored := repo.users[resp.User.ID]
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	req := dto.RegisterRequest{
		Name: "Asha Rao", Email: "asha@example.com",
		MobileNumber: "5551234567", Password: "password123",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Login_ByEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Asha Rao", Email: "asha@example.com",
		MobileNumber: "5551234567", Password: "password123",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Identifier: "asha@example.com", Password: "password123", IsEmail: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Login Successful!", resp.Message)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthService_Login_ByMobile(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Asha Rao", Email: "asha@example.com",
		MobileNumber: "5551234567", Password: "password123",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Identifier: "5551234567", Password: "password123", IsEmail: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", resp.User.Name)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Identifier: "nobody@example.com", Password: "password123", IsEmail: true,
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Asha Rao", Email: "asha@example.com",
		MobileNumber: "5551234567", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Identifier: "asha@example.com", Password: "wrong", IsEmail: true,
	})
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}
