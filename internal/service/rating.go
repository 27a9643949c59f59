package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"linecut/internal/database"
	"linecut/internal/model"
)

type RatingService struct {
	db *sql.DB
}

func NewRatingService(db *sql.DB) *RatingService {
	return &RatingService{db: db}
}

type RatingInput struct {
	Quality int `json:"quality" validate:"min=1,max=5"`
	Speed   int `json:"speed" validate:"min=1,max=5"`
	Service int `json:"service" validate:"min=1,max=5"`
}

const scoreRangeMessage = "Notas devem estar entre 1 e 5"

// Save records or replaces the user's rating of one of their orders.
func (s *RatingService) Save(ctx context.Context, userID, orderID string, in RatingInput) (*model.Rating, error) {
	if err := checkStruct(&in, nil, scoreRangeMessage); err != nil {
		return nil, err
	}

	var storeID string
	err := s.db.QueryRowContext(ctx, `SELECT store_id FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID).Scan(&storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidInput(err) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	r := model.Rating{OrderID: orderID, StoreID: storeID, Service: in.Service, Quality: in.Quality, Speed: in.Speed}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO order_ratings (order_id, store_id, service, quality, speed, rated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (order_id) DO UPDATE
		SET service = EXCLUDED.service, quality = EXCLUDED.quality, speed = EXCLUDED.speed, rated_at = EXCLUDED.rated_at
		RETURNING rated_at
	`, r.OrderID, r.StoreID, r.Service, r.Quality, r.Speed).Scan(&r.RatedAt)
	if err != nil {
		return nil, fmt.Errorf("save rating: %w", err)
	}
	return &r, nil
}

func (s *RatingService) Get(ctx context.Context, userID, orderID string) (*model.Rating, error) {
	var r model.Rating
	err := s.db.QueryRowContext(ctx, `
		SELECT r.order_id, r.store_id, r.service, r.quality, r.speed, r.rated_at
		FROM order_ratings r
		JOIN orders o ON o.id = r.order_id
		WHERE r.order_id = $1 AND o.user_id = $2
	`, orderID, userID).Scan(&r.OrderID, &r.StoreID, &r.Service, &r.Quality, &r.Speed, &r.RatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsInvalidInput(err) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return &r, nil
}
