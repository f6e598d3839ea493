package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/voltkart/storefront-api/internal/dto"
	"github.com/voltkart/storefront-api/internal/repository"
)

var (
	ErrAlreadyInWishlist = errors.New("product already in wishlist")
	ErrNotInWishlist     = errors.New("product not in wishlist")
)

type WishlistService struct {
	wishlistRepo repository.WishlistRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo}
}

// Add inserts the (user, product) pair. The store's uniqueness constraint
// is the conflict signal, so concurrent duplicate adds cannot both land.
func (s *WishlistService) Add(ctx context.Context, userID, productID int64) error {
	inserted, err := s.wishlistRepo.Add(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("add to wishlist: %w", err)
	}
	if !inserted {
		return ErrAlreadyInWishlist
	}
	return nil
}

// Remove deletes the pair; removing a non-member is an error, which the
// toggle-button client relies on to revert its optimistic state.
func (s *WishlistService) Remove(ctx context.Context, userID, productID int64) error {
	removed, err := s.wishlistRepo.Remove(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	if !removed {
		return ErrNotInWishlist
	}
	return nil
}

// List returns full product rows for every wishlist member, each annotated
// with the membership flag for response-shape symmetry with mixed listings.
func (s *WishlistService) List(ctx context.Context, userID int64) ([]dto.WishlistProductResponse, error) {
	products, err := s.wishlistRepo.Products(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}

	items := make([]dto.WishlistProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.WishlistProductResponse{
			ProductResponse: ToProductResponse(&products[i]),
			IsInWishlist:    true,
		})
	}
	return items, nil
}

func (s *WishlistService) Contains(ctx context.Context, userID, productID int64) (bool, error) {
	exists, err := s.wishlistRepo.Contains(ctx, userID, productID)
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}
	return exists, nil
}
