package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/mediafaves/internal/db/dbtest"
	"github.com/templui/mediafaves/internal/model"
)

func setupFavorites(t *testing.T) (*sqlx.DB, FavoriteRepository, int64) {
	t.Helper()
	database := dbtest.New(t)
	user := newUser("fav@example.com")
	require.NoError(t, NewUserRepository(database).Create(context.Background(), user))
	return database, NewFavoriteRepository(database), user.ID
}

func newFavorite(userID int64, contentID, contentType string, at time.Time) *model.Favorite {
	return &model.Favorite{
		UserID:      userID,
		ContentID:   contentID,
		ContentType: contentType,
		ContentData: model.ContentData(fmt.Sprintf(`{"id":%q}`, contentID)),
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func TestFavoriteRepository_CreateExistsDelete(t *testing.T) {
	_, repo, userID := setupFavorites(t)
	ctx := context.Background()

	fav := newFavorite(userID, "123", model.ContentTypePhoto, time.Now())
	require.NoError(t, repo.Create(ctx, fav))
	assert.NotZero(t, fav.ID)

	exists, err := repo.Exists(ctx, userID, "123")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, userID, "123"))
	assert.ErrorIs(t, repo.Delete(ctx, userID, "123"), ErrFavoriteNotFound)

	exists, err = repo.Exists(ctx, userID, "123")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFavoriteRepository_UniqueIgnoresType(t *testing.T) {
	_, repo, userID := setupFavorites(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newFavorite(userID, "123", model.ContentTypePhoto, time.Now())))
	err := repo.Create(ctx, newFavorite(userID, "123", model.ContentTypeVideo, time.Now()))
	assert.ErrorIs(t, err, ErrDuplicateFavorite)
}

func TestFavoriteRepository_SameContentDifferentUsers(t *testing.T) {
	database, repo, userID := setupFavorites(t)
	ctx := context.Background()

	other := newUser("other@example.com")
	require.NoError(t, NewUserRepository(database).Create(ctx, other))

	require.NoError(t, repo.Create(ctx, newFavorite(userID, "123", model.ContentTypePhoto, time.Now())))
	require.NoError(t, repo.Create(ctx, newFavorite(other.ID, "123", model.ContentTypePhoto, time.Now())))
}

func TestFavoriteRepository_ConcurrentCreateStoresOne(t *testing.T) {
	database, repo, userID := setupFavorites(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = repo.Create(ctx, newFavorite(userID, "race", model.ContentTypePhoto, time.Now()))
		}()
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateFavorite)
	}
	assert.Equal(t, 1, created)

	var rows int
	require.NoError(t, database.Get(&rows, `SELECT COUNT(*) FROM favorites WHERE user_id = $1 AND content_id = $2`, userID, "race"))
	assert.Equal(t, 1, rows)
}

func TestFavoriteRepository_ListNewestFirst(t *testing.T) {
	_, repo, userID := setupFavorites(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := range 5 {
		require.NoError(t, repo.Create(ctx, newFavorite(userID, fmt.Sprintf("c%d", i), model.ContentTypePhoto, base.Add(time.Duration(i)*time.Minute))))
	}

	count, err := repo.CountByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	first, err := repo.ListByUser(ctx, userID, 2, 0)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "c4", first[0].ContentID)
	assert.Equal(t, "c3", first[1].ContentID)
	assert.JSONEq(t, `{"id":"c4"}`, string(first[0].ContentData))

	last, err := repo.ListByUser(ctx, userID, 2, 4)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "c0", last[0].ContentID)

	beyond, err := repo.ListByUser(ctx, userID, 20, 40)
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.NotNil(t, beyond)

	ids, err := repo.ContentIDs(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c4", "c3", "c2", "c1", "c0"}, ids)
}

func TestFavoriteRepository_ListOrdersAcrossOffsetChange(t *testing.T) {
	_, repo, userID := setupFavorites(t)
	ctx := context.Background()

	// US Pacific fall-back: the later instant has the smaller wall clock
	pdt := time.FixedZone("PDT", -7*60*60)
	pst := time.FixedZone("PST", -8*60*60)
	earlier := time.Date(2026, 11, 1, 8, 30, 0, 0, time.UTC).In(pdt)
	later := time.Date(2026, 11, 1, 9, 10, 0, 0, time.UTC).In(pst)

	require.NoError(t, repo.Create(ctx, newFavorite(userID, "later", model.ContentTypePhoto, later)))
	require.NoError(t, repo.Create(ctx, newFavorite(userID, "earlier", model.ContentTypePhoto, earlier)))

	favorites, err := repo.ListByUser(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, "later", favorites[0].ContentID)
	assert.Equal(t, "earlier", favorites[1].ContentID)
	assert.True(t, favorites[0].CreatedAt.Equal(later))

	ids, err := repo.ContentIDs(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"later", "earlier"}, ids)
}
