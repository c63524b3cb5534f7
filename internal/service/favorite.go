package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/mediafaves/internal/errs"
	"github.com/templui/mediafaves/internal/model"
	"github.com/templui/mediafaves/internal/repository"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

var (
	ErrMissingFavoriteFields = errs.Validation("Missing required fields")
	ErrInvalidContentType    = errs.Validation(`"contentType" must be one of [photo, video]`)
	ErrInvalidContentData    = errs.Validation(`"contentData" must be of type object`)
	ErrFavoriteExists        = errs.Conflict("Content already in favorites")
	ErrFavoriteNotFound      = errs.NotFound("Favorite not found")
)

type FavoriteService struct {
	repo repository.FavoriteRepository
	now  func() time.Time
}

func NewFavoriteService(repo repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{repo: repo, now: utcNow}
}

// Add saves a content snapshot for the user. Uniqueness is per content id,
// whatever type the client claims.
func (s *FavoriteService) Add(ctx context.Context, userID int64, contentID, contentType string, contentData model.ContentData) (*model.Favorite, error) {
	if contentID == "" || contentType == "" || len(contentData) == 0 {
		return nil, ErrMissingFavoriteFields
	}
	if !model.ValidContentType(contentType) {
		return nil, ErrInvalidContentType
	}
	if !contentData.IsObject() {
		return nil, ErrInvalidContentData
	}

	exists, err := s.repo.Exists(ctx, userID, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check favorite: %w", err)
	}
	if exists {
		return nil, ErrFavoriteExists
	}

	now := s.now()
	favorite := &model.Favorite{
		UserID:      userID,
		ContentID:   contentID,
		ContentType: contentType,
		ContentData: contentData,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repo.Create(ctx, favorite)
	if err != nil {
		// Lost a race with a concurrent add; the unique constraint decided
		if errors.Is(err, repository.ErrDuplicateFavorite) {
			return nil, ErrFavoriteExists
		}
		return nil, fmt.Errorf("failed to create favorite: %w", err)
	}

	slog.Debug("favorite added", "user_id", userID, "content_id", contentID, "content_type", contentType)
	return favorite, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID int64, contentID string) error {
	err := s.repo.Delete(ctx, userID, contentID)
	if err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return ErrFavoriteNotFound
		}
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

// List returns one page of favorites, newest first. Pages past the end are
// empty rather than an error.
func (s *FavoriteService) List(ctx context.Context, userID int64, page, perPage int) (model.Page[*model.Favorite], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return model.Page[*model.Favorite]{}, fmt.Errorf("failed to count favorites: %w", err)
	}

	offset := (page - 1) * perPage
	var favorites []*model.Favorite
	if offset < total {
		favorites, err = s.repo.ListByUser(ctx, userID, perPage, offset)
		if err != nil {
			return model.Page[*model.Favorite]{}, fmt.Errorf("failed to list favorites: %w", err)
		}
	}

	return model.NewPage(total, page, perPage, favorites), nil
}

// IDs returns every content id the user has saved, for pre-marking search results.
func (s *FavoriteService) IDs(ctx context.Context, userID int64) ([]string, error) {
	ids, err := s.repo.ContentIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite ids: %w", err)
	}
	return ids, nil
}
