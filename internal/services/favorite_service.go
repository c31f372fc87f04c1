/**
 * @description
 * Favorite Service for saved listings.
 * Unlike search persistence, failures here are returned to the caller.
 *
 * @dependencies
 * - backend/internal/store
 * - backend/internal/models
 */

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dealwise-project/backend/internal/logger"
	"github.com/dealwise-project/backend/internal/models"
	"github.com/dealwise-project/backend/internal/store"
)

const MaxFavorites = 200

var ErrUserRequired = errors.New("user_id is required")

// FavoriteService handles favorite CRUD
type FavoriteService struct {
	store store.Store
}

func NewFavoriteService(st store.Store) *FavoriteService {
	return &FavoriteService{store: st}
}

// AddFavorite validates and stores fav, returning its id
func (s *FavoriteService) AddFavorite(ctx context.Context, fav *models.Favorite) (string, error) {
	if strings.TrimSpace(fav.Currency) == "" {
		fav.Currency = models.DefaultCurrency
	}
	if err := fav.Validate(); err != nil {
		return "", err
	}

	id, err := s.store.CreateFavorite(ctx, fav)
	if err != nil {
		logger.Error("FavoriteService: Failed to add favorite for %s: %v", fav.UserID, err)
		return "", err
	}
	return id, nil
}

// ListFavorites returns a user's favorites newest first
func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserRequired
	}
	return s.store.FindFavorites(ctx, userID, MaxFavorites)
}

// RemoveFavorite deletes by id and returns how many records were removed
func (s *FavoriteService) RemoveFavorite(ctx context.Context, id string) (int64, error) {
	n, err := s.store.DeleteFavorite(ctx, id)
	if err != nil && !errors.Is(err, store.ErrInvalidID) {
		logger.Error("FavoriteService: Failed to remove favorite %s: %v", id, err)
	}
	return n, err
}
