package model

import "time"

type Category struct {
	ID          int    `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type Product struct {
	ID        int       `json:"id"`
	Label     string    `json:"label"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
	Category  Category  `json:"-"`
}
