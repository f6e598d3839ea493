package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voltkart/storefront-api/internal/model"
)

// ErrDuplicate signals a unique-constraint violation (email, mobile number,
// wishlist pair). The constraint is the authoritative conflict signal; no
// pre-insert existence check is performed.
var ErrDuplicate = errors.New("duplicate row")

const userColumns = `id, name, email, mobile_number, password_hash,
	COALESCE(street, ''), COALESCE(city, ''), COALESCE(state, ''),
	COALESCE(zip, ''), COALESCE(country, ''), COALESCE(profile_pic, ''), sp_discount`

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByMobile(ctx context.Context, mobile string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdateAddress(ctx context.Context, userID int64, addr model.Address) error
	GetAddress(ctx context.Context, userID int64) (*model.Address, error)
	SetProfilePic(ctx context.Context, userID int64, filename string) error
	GetEmailAndDiscount(ctx context.Context, userID int64) (string, int, error)
	SaveCardDetails(ctx context.Context, userID int64, cardNumber, cvv, expiryMonth, expiryYear string) error
}

type pgUserRepo struct{ pool *pgxpool.Pool }

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgUserRepo{pool: pool}
}

func (r *pgUserRepo) Create(ctx context.Context, user *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, mobile_number, password_hash)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		user.Name, user.Email, user.MobileNumber, user.PasswordHash,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getBy(ctx, `id = $1`, id)
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, `email = $1`, email)
}

func (r *pgUserRepo) GetByMobile(ctx context.Context, mobile string) (*model.User, error) {
	return r.getBy(ctx, `mobile_number = $1`, mobile)
}

func (r *pgUserRepo) getBy(ctx context.Context, predicate string, arg any) (*model.User, error) {
	user := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+predicate, arg,
	).Scan(
		&user.ID, &user.Name, &user.Email, &user.MobileNumber, &user.PasswordHash,
		&user.Street, &user.City, &user.State, &user.Zip, &user.Country,
		&user.ProfilePic, &user.SpDiscount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfile overwrites the full editable row: fields the caller left
// empty are written empty.
func (r *pgUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $2, email = $3, mobile_number = $4, street = $5,
		 city = $6, state = $7, zip = $8, country = $9, profile_pic = $10
		 WHERE id = $1`,
		user.ID, user.Name, user.Email, user.MobileNumber, user.Street,
		user.City, user.State, user.Zip, user.Country, user.ProfilePic,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgUserRepo) UpdateAddress(ctx context.Context, userID int64, addr model.Address) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE users SET street = $2, city = $3, state = $4, zip = $5, country = $6
		 WHERE id = $1`,
		userID, addr.Street, addr.City, addr.State, addr.Zip, addr.Country,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgUserRepo) GetAddress(ctx context.Context, userID int64) (*model.Address, error) {
	addr := &model.Address{}
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(street, ''), COALESCE(city, ''), COALESCE(state, ''),
		        COALESCE(zip, ''), COALESCE(country, '')
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&addr.Street, &addr.City, &addr.State, &addr.Zip, &addr.Country)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return addr, nil
}

func (r *pgUserRepo) SetProfilePic(ctx context.Context, userID int64, filename string) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE users SET profile_pic = $2 WHERE id = $1`, userID, filename,
	)
	if err != nil {
		return fmt.Errorf("set profile pic: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgUserRepo) GetEmailAndDiscount(ctx context.Context, userID int64) (string, int, error) {
	var email string
	var discount int
	err := r.pool.QueryRow(ctx,
		`SELECT email, sp_discount FROM users WHERE id = $1`, userID,
	).Scan(&email, &discount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, pgx.ErrNoRows
		}
		return "", 0, fmt.Errorf("get email: %w", err)
	}
	return email, discount, nil
}

// SaveCardDetails stores the already-encrypted card number and CVV, the
// cleartext expiry, and flips the discount-eligibility flag.
func (r *pgUserRepo) SaveCardDetails(ctx context.Context, userID int64, cardNumber, cvv, expiryMonth, expiryYear string) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE users SET card_number = $2, cvv = $3, expiry_month = $4,
		 expiry_year = $5, sp_discount = 1 WHERE id = $1`,
		userID, cardNumber, cvv, expiryMonth, expiryYear,
	)
	if err != nil {
		return fmt.Errorf("save card details: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
