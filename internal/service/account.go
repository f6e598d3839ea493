package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/voltkart/storefront-api/internal/crypt"
	"github.com/voltkart/storefront-api/internal/dto"
	"github.com/voltkart/storefront-api/internal/model"
	"github.com/voltkart/storefront-api/internal/repository"
)

type AccountService struct {
	userRepo repository.UserRepository
	cipher   *crypt.Cipher
}

func NewAccountService(userRepo repository.UserRepository, cipher *crypt.Cipher) *AccountService {
	return &AccountService{userRepo: userRepo, cipher: cipher}
}

func (s *AccountService) Profile(ctx context.Context, userID int64) (*dto.UserProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	resp := &dto.UserProfileResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		MobileNumber: user.MobileNumber,
		Street:       user.Street,
		City:         user.City,
		State:        user.State,
		Zip:          user.Zip,
		Country:      user.Country,
		ProfilePic:   user.ProfilePic,
		SpDiscount:   user.SpDiscount,
	}
	// Stored filenames are relative; the API serves them under /uploads.
	if resp.ProfilePic != "" {
		resp.ProfilePic = "/uploads/" + resp.ProfilePic
	}
	return resp, nil
}

// UpdateProfile is a full-row overwrite: omitted request fields are written
// as empty.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, req dto.UpdateProfileRequest) error {
	user := &model.User{
		ID:           userID,
		Name:         req.Name,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Street:       req.Street,
		City:         req.City,
		State:        req.State,
		Zip:          req.Zip,
		Country:      req.Country,
		ProfilePic:   req.ProfilePic,
	}
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (s *AccountService) UpdateAddress(ctx context.Context, req dto.ShippingAddressRequest) error {
	addr := model.Address{
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		Zip:     req.Zip,
		Country: req.Country,
	}
	if err := s.userRepo.UpdateAddress(ctx, req.UserID, addr); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update address: %w", err)
	}
	return nil
}

func (s *AccountService) Address(ctx context.Context, userID int64) (*model.Address, error) {
	addr, err := s.userRepo.GetAddress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	if addr == nil {
		return nil, ErrUserNotFound
	}
	return addr, nil
}

func (s *AccountService) SetProfilePic(ctx context.Context, userID int64, filename string) error {
	if err := s.userRepo.SetProfilePic(ctx, userID, filename); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("set profile pic: %w", err)
	}
	return nil
}

func (s *AccountService) EmailAndDiscount(ctx context.Context, userID int64) (*dto.UserEmailResponse, error) {
	email, discount, err := s.userRepo.GetEmailAndDiscount(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get email: %w", err)
	}
	return &dto.UserEmailResponse{Email: email, SpDiscount: discount}, nil
}

// SaveCard encrypts the card number and CVV before storage; expiry fields
// stay cleartext. Storing card details flips the discount flag on the row.
func (s *AccountService) SaveCard(ctx context.Context, req dto.CardDetailsRequest) error {
	encCard, err := s.cipher.Encrypt(req.CardNumber)
	if err != nil {
		return fmt.Errorf("encrypt card number: %w", err)
	}
	encCVV, err := s.cipher.Encrypt(req.CVV)
	if err != nil {
		return fmt.Errorf("encrypt cvv: %w", err)
	}

	err = s.userRepo.SaveCardDetails(ctx, req.ID, encCard, encCVV, req.ExpiryMonth, req.ExpiryYear)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("save card details: %w", err)
	}
	return nil
}
