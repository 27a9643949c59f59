package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingSave(t *testing.T) {
	t.Run("score out of range", func(t *testing.T) {
		for _, in := range []RatingInput{
			{Quality: 6, Speed: 3, Service: 3},
			{Quality: 3, Speed: 0, Service: 3},
			{Quality: 3, Speed: 3, Service: -1},
		} {
			_, err := NewRatingService(nil).Save(context.Background(), "u-1", "o-1", in)
			assert.Equal(t, "Notas devem estar entre 1 e 5", validationMessage(t, err))
		}
	})

	t.Run("not the user's order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`SELECT store_id FROM orders`).WithArgs("o-1", "u-2").WillReturnError(sql.ErrNoRows)

		_, err = NewRatingService(db).Save(context.Background(), "u-2", "o-1", RatingInput{Quality: 4, Speed: 3, Service: 5})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("upsert", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rated := time.Date(2025, 10, 18, 16, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT store_id FROM orders`).WithArgs("o-1", "u-1").
			WillReturnRows(sqlmock.NewRows([]string{"store_id"}).AddRow("cantina"))
		mock.ExpectQuery(`ON CONFLICT \(order_id\) DO UPDATE`).WithArgs("o-1", "cantina", 5, 4, 3).
			WillReturnRows(sqlmock.NewRows([]string{"rated_at"}).AddRow(rated))

		r, err := NewRatingService(db).Save(context.Background(), "u-1", "o-1", RatingInput{Quality: 4, Speed: 3, Service: 5})
		require.NoError(t, err)
		assert.Equal(t, "cantina", r.StoreID)
		assert.Equal(t, rated, r.RatedAt)
		assert.InDelta(t, 4.0, r.Average(), 1e-9)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRatingGet_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery(`FROM order_ratings r`).WithArgs("o-1", "u-1").WillReturnError(sql.ErrNoRows)

	_, err = NewRatingService(db).Get(context.Background(), "u-1", "o-1")
	assert.ErrorIs(t, err, ErrRatingNotFound)
}
