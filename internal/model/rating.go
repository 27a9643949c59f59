package model

import "time"

const (
	MinScore = 1
	MaxScore = 5
)

type Rating struct {
	OrderID string    `json:"order_id"`
	StoreID string    `json:"store_id"`
	Service int       `json:"service"`
	Quality int       `json:"quality"`
	Speed   int       `json:"speed"`
	RatedAt time.Time `json:"rated_at"`
}

func (r Rating) Average() float64 {
	return float64(r.Service+r.Quality+r.Speed) / 3.0
}
