package service

import (
	"context"

	"radha-kanna-retail/models"
)

// CartServiceInterface defines the contract for the viewer's cart.
type CartServiceInterface interface {
	Add(ctx context.Context, category string, index int) (*models.Cart, error)
	Remove(index int) (*models.Cart, error)
	Get() *models.Cart
}
