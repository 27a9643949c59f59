package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"linecut/internal/model"
)

const (
	fallbackStoreName     = "Lanchonete"
	fallbackStoreCategory = "Categoria"
)

type StoreService struct {
	db *sql.DB
}

func NewStoreService(db *sql.DB) *StoreService {
	return &StoreService{db: db}
}

const selectStoreSQL = `SELECT id, name, description, category, image_url, cnpj, pix_key, address FROM stores`

func scanStore(row rowScanner) (*model.Store, error) {
	var st model.Store
	if err := row.Scan(&st.ID, &st.Name, &st.Description, &st.Category, &st.ImageURL, &st.CNPJ, &st.PixKey, &st.Address); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *StoreService) List(ctx context.Context) ([]model.Store, error) {
	rows, err := s.db.QueryContext(ctx, selectStoreSQL+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}
	defer rows.Close()

	var stores []model.Store
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, *st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return stores, nil
}

func (s *StoreService) Get(ctx context.Context, id string) (*model.Store, error) {
	st, err := scanStore(s.db.QueryRowContext(ctx, selectStoreSQL+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return st, nil
}

// StoreName returns the display name, or ErrStoreNotFound.
func (s *StoreService) StoreName(ctx context.Context, id string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM stores WHERE id = $1`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrStoreNotFound
		}
		return "", fmt.Errorf("get store name: %w", err)
	}
	return name, nil
}

func (s *StoreService) Products(ctx context.Context, storeID string) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, store_id, name, description, price, category, image_url
		FROM products
		WHERE store_id = $1
		ORDER BY category, name
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return products, nil
}

func (s *StoreService) Categories(ctx context.Context) ([]model.ProductCategory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM product_categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.ProductCategory
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, model.ProductCategory{ID: CategoryID(name), Name: name})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return categories, nil
}

// CategoryID derives a stable id from a display name:
// "Lanches Rápidos" becomes "lanches_rapidos".
func CategoryID(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		stripped = strings.ToLower(name)
	}
	return strings.ReplaceAll(stripped, " ", "_")
}

type FavoriteService struct {
	db *sql.DB
}

func NewFavoriteService(db *sql.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]model.Store, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.description, s.category, s.image_url, s.cnpj, s.pix_key, s.address
		FROM favorites f
		JOIN stores s ON s.id = f.store_id
		WHERE f.user_id = $1
		ORDER BY f.created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer rows.Close()

	var stores []model.Store
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		st.Favorite = true
		stores = append(stores, *st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return stores, nil
}

// Toggle adds the store to the user's favorites, or removes it when it is
// already there. It returns whether the store is a favorite afterwards.
func (s *FavoriteService) Toggle(ctx context.Context, userID, storeID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = $1 AND store_id = $2`, userID, storeID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, store_id) SELECT $1, id FROM stores WHERE id = $2 ON CONFLICT DO NOTHING`,
		userID, storeID,
	)
	if err != nil {
		return false, fmt.Errorf("insert favorite: %w", err)
	}

	var exists bool
	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND store_id = $2)`, userID, storeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	if !exists {
		return false, ErrStoreNotFound
	}
	return true, nil
}
