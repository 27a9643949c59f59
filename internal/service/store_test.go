package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryID(t *testing.T) {
	assert.Equal(t, "lanches_rapidos", CategoryID("Lanches Rápidos"))
	assert.Equal(t, "acai", CategoryID(" Açaí "))
	assert.Equal(t, "bebidas", CategoryID("BEBIDAS"))
}

func TestCategories(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery(`FROM product_categories`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Salgados").AddRow("Pratos Feitos"))

	cats, err := NewStoreService(db).Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "pratos_feitos", cats[1].ID)
}

func TestFavoriteToggle(t *testing.T) {
	t.Run("removes existing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectExec(`DELETE FROM favorites`).WithArgs("u-1", "cantina").WillReturnResult(sqlmock.NewResult(0, 1))

		fav, err := NewFavoriteService(db).Toggle(context.Background(), "u-1", "cantina")
		require.NoError(t, err)
		assert.False(t, fav)
	})

	t.Run("adds new", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectExec(`DELETE FROM favorites`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO favorites`).WithArgs("u-1", "cantina").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		fav, err := NewFavoriteService(db).Toggle(context.Background(), "u-1", "cantina")
		require.NoError(t, err)
		assert.True(t, fav)
	})

	t.Run("unknown store", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectExec(`DELETE FROM favorites`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO favorites`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err = NewFavoriteService(db).Toggle(context.Background(), "u-1", "nowhere")
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})
}
