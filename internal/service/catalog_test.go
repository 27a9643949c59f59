package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
categories:
  - Salgados
  - Bebidas
stores:
  - id: cantina
    name: Cantina Central
    category: Polo Central
    pix_key: pix@cantina.com
    products:
      - id: coxinha
        name: Coxinha
        price: 6.5
        category: Salgados
      - id: suco
        name: Suco de laranja
        price: 7
        category: Bebidas
`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"Salgados", "Bebidas"}, c.Categories)
	require.Len(t, c.Stores, 1)
	assert.Equal(t, "pix@cantina.com", c.Stores[0].PixKey)
	require.Len(t, c.Stores[0].Products, 2)
	assert.Equal(t, 7.0, c.Stores[0].Products[1].Price)

	_, err = ParseCatalog([]byte("stores:\n  - id: x\n    name: X\n    products:\n      - id: p\n        price: 0\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("stores: [{name: Sem id}]"))
	assert.Error(t, err)
}

func TestImportCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)

	t.Run("ok", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO product_categories`).WithArgs("Salgados").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO product_categories`).WithArgs("Bebidas").WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectExec(`INSERT INTO stores`).
			WithArgs("cantina", "Cantina Central", "", "Polo Central", "", "", "pix@cantina.com", "").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO products`).WithArgs("coxinha", "cantina", "Coxinha", "", 6.5, "Salgados", "").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO products`).WithArgs("suco", "cantina", "Suco de laranja", "", 7.0, "Bebidas", "").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewStoreService(db).Import(context.Background(), c))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO product_categories`).WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		assert.Error(t, NewStoreService(db).Import(context.Background(), c))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
