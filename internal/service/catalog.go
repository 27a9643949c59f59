package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"
)

// CatalogFile is the YAML document used to load stores, products and
// product categories.
type CatalogFile struct {
	Categories []string       `yaml:"categories"`
	Stores     []CatalogStore `yaml:"stores"`
}

type CatalogStore struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Category    string           `yaml:"category"`
	ImageURL    string           `yaml:"image_url"`
	CNPJ        string           `yaml:"cnpj"`
	PixKey      string           `yaml:"pix_key"`
	Address     string           `yaml:"address"`
	Products    []CatalogProduct `yaml:"products"`
}

type CatalogProduct struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Category    string  `yaml:"category"`
	ImageURL    string  `yaml:"image_url"`
}

func ParseCatalog(data []byte) (*CatalogFile, error) {
	var c CatalogFile
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	seen := make(map[string]bool)
	for _, st := range c.Stores {
		if strings.TrimSpace(st.ID) == "" || strings.TrimSpace(st.Name) == "" {
			return nil, errors.New("store without id or name")
		}
		for _, p := range st.Products {
			if p.ID == "" || p.Price <= 0 {
				return nil, fmt.Errorf("store %s: product %q needs an id and a positive price", st.ID, p.Name)
			}
			if seen[p.ID] {
				return nil, fmt.Errorf("duplicate product id %s", p.ID)
			}
			seen[p.ID] = true
		}
	}
	return &c, nil
}

// Import upserts the whole catalog in one transaction.
func (s *StoreService) Import(ctx context.Context, c *CatalogFile) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, name := range c.Categories {
		_, err = tx.ExecContext(ctx, `INSERT INTO product_categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
		if err != nil {
			return fmt.Errorf("insert category %s: %w", name, err)
		}
	}

	for _, st := range c.Stores {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO stores (id, name, description, category, image_url, cnpj, pix_key, address)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, description = EXCLUDED.description, category = EXCLUDED.category,
				image_url = EXCLUDED.image_url, cnpj = EXCLUDED.cnpj, pix_key = EXCLUDED.pix_key, address = EXCLUDED.address
		`, st.ID, st.Name, st.Description, st.Category, st.ImageURL, st.CNPJ, st.PixKey, st.Address)
		if err != nil {
			return fmt.Errorf("upsert store %s: %w", st.ID, err)
		}

		for _, p := range st.Products {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO products (id, store_id, name, description, price, category, image_url)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (id) DO UPDATE SET
					store_id = EXCLUDED.store_id, name = EXCLUDED.name, description = EXCLUDED.description,
					price = EXCLUDED.price, category = EXCLUDED.category, image_url = EXCLUDED.image_url
			`, p.ID, st.ID, p.Name, p.Description, p.Price, p.Category, p.ImageURL)
			if err != nil {
				return fmt.Errorf("upsert product %s: %w", p.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	slog.Info("catalog imported", "stores", len(c.Stores), "categories", len(c.Categories))
	return nil
}
