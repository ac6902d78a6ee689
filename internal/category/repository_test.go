package category

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetCategories(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "slug", "created_at"}).
			AddRow(1, "Biblias", "biblias", now).
			AddRow(2, "Rosarios", "rosarios", now)

		mock.ExpectQuery(`SELECT c.id, c.name, c.slug, c.created_at FROM categories c ORDER BY c.name ASC LIMIT \$1 OFFSET \$2`).
			WithArgs(int32(20), int32(0)).
			WillReturnRows(rows)

		categories, err := repo.GetCategories(ctx, nil, nil, nil)
		require.NoError(t, err)
		require.Len(t, categories, 2)
		assert.Equal(t, "biblias", categories[0].Slug)
	})

	t.Run("Filter And Pagination", func(t *testing.T) {
		filter := "bib"
		limit := int32(5)
		page := int32(2)

		mock.ExpectQuery(`WHERE c.name ILIKE \$1 .* LIMIT \$2 OFFSET \$3`).
			WithArgs("%bib%", limit, int32(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at"}))

		categories, err := repo.GetCategories(ctx, &filter, &limit, &page)
		require.NoError(t, err)
		assert.Empty(t, categories)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM categories`).
			WillReturnError(errors.New("db error"))

		_, err := repo.GetCategories(ctx, nil, nil, nil)
		assert.Error(t, err)
	})
}

func TestRepository_AddCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success Slugifies Name", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO categories`).
			WithArgs("Libros Infantiles", "libros-infantiles").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at"}).
				AddRow(3, "Libros Infantiles", "libros-infantiles", now))

		c, err := repo.AddCategory(ctx, "Libros Infantiles")
		require.NoError(t, err)
		assert.Equal(t, "libros-infantiles", c.Slug)
	})

	t.Run("Empty Name", func(t *testing.T) {
		_, err := repo.AddCategory(ctx, "")
		assert.Error(t, err)
	})
}

func TestRepository_UpdateCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE categories SET name = \$1, slug = \$2 WHERE id = \$3`).
			WithArgs("Rosarios", "rosarios", uint(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at"}).
				AddRow(2, "Rosarios", "rosarios", now))

		c, err := repo.UpdateCategory(ctx, 2, "Rosarios")
		require.NoError(t, err)
		assert.Equal(t, uint(2), c.ID)
	})

	t.Run("Missing Category", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE categories SET`).
			WithArgs("Rosarios", "rosarios", uint(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.UpdateCategory(ctx, 99, "Rosarios")
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}
