package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/mediafaves/internal/model"
)

var (
	ErrFavoriteNotFound  = errors.New("favorite not found")
	ErrDuplicateFavorite = errors.New("favorite already exists")
)

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *model.Favorite) error
	Exists(ctx context.Context, userID int64, contentID string) (bool, error)
	Delete(ctx context.Context, userID int64, contentID string) error
	CountByUser(ctx context.Context, userID int64) (int, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*model.Favorite, error)
	ContentIDs(ctx context.Context, userID int64) ([]string, error)
}

type favoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepository(db *sqlx.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

const favoriteColumns = `id, user_id, content_id, content_type, content_data, created_at, updated_at`

// Create relies on the (user_id, content_id) unique constraint, so of two
// concurrent inserts for the same pair exactly one succeeds. Timestamps are
// stored in UTC; SQLite orders them as text.
func (r *favoriteRepository) Create(ctx context.Context, favorite *model.Favorite) error {
	favorite.CreatedAt = favorite.CreatedAt.UTC()
	favorite.UpdatedAt = favorite.UpdatedAt.UTC()

	query := `INSERT INTO favorites (user_id, content_id, content_type, content_data, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		favorite.UserID,
		favorite.ContentID,
		favorite.ContentType,
		favorite.ContentData,
		favorite.CreatedAt,
		favorite.UpdatedAt,
	).Scan(&favorite.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateFavorite
		}
		return err
	}

	return nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID int64, contentID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND content_id = $2)`

	err := r.db.GetContext(ctx, &exists, query, userID, contentID)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *favoriteRepository) Delete(ctx context.Context, userID int64, contentID string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND content_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, contentID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrFavoriteNotFound
	}

	return nil
}

func (r *favoriteRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM favorites WHERE user_id = $1`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

// ListByUser returns newest first; id breaks ties between equal timestamps.
func (r *favoriteRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*model.Favorite, error) {
	favorites := []*model.Favorite{}
	query := `SELECT ` + favoriteColumns + ` FROM favorites
	          WHERE user_id = $1
	          ORDER BY created_at DESC, id DESC
	          LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &favorites, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return favorites, nil
}

func (r *favoriteRepository) ContentIDs(ctx context.Context, userID int64) ([]string, error) {
	ids := []string{}
	query := `SELECT content_id FROM favorites WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &ids, query, userID)
	if err != nil {
		return nil, err
	}

	return ids, nil
}
