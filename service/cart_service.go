package service

import (
	"context"
	"fmt"
	"sync"

	"radha-kanna-retail/models"
	"radha-kanna-retail/utils"

	"github.com/shopspring/decimal"
)

// CartService keeps the viewer's cart. Items are added by their
// position in a category listing, the same addressing the viewer grid
// uses. The cart lives in memory only.
// Implements CartServiceInterface
type CartService struct {
	mu     sync.Mutex
	lines  []models.CartLine
	viewer ViewerServiceInterface
}

// NewCartService creates a new CartService.
func NewCartService(viewer ViewerServiceInterface) *CartService {
	return &CartService{viewer: viewer}
}

// Ensure CartService implements CartServiceInterface
var _ CartServiceInterface = (*CartService)(nil)

// Add resolves the viewer item at (category, index) and appends it to
// the cart.
func (s *CartService) Add(ctx context.Context, category string, index int) (*models.Cart, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", models.ErrInvalidInput)
	}

	items, err := s.viewer.CategoryItems(ctx, category)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("%w: index %d in category %q (size %d)", models.ErrIndexOutOfRange, index, category, len(items))
	}

	item := items[index]

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = append(s.lines, models.CartLine{
		Category:    category,
		Name:        item.Name,
		Price:       item.Price,
		Description: item.Description,
		ImageURL:    item.CloudinaryURL,
	})
	return s.cartLocked(), nil
}

// Remove drops the cart line at the given position.
func (s *CartService) Remove(index int) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.lines) {
		return nil, fmt.Errorf("%w: cart line %d (size %d)", models.ErrIndexOutOfRange, index, len(s.lines))
	}

	s.lines = append(s.lines[:index], s.lines[index+1:]...)
	return s.cartLocked(), nil
}

// Get returns the current cart.
func (s *CartService) Get() *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLocked()
}

// cartLocked copies the lines and totals every parseable price.
// Unparseable prices (operators may type anything) simply don't count
// towards the total.
func (s *CartService) cartLocked() *models.Cart {
	lines := make([]models.CartLine, len(s.lines))
	copy(lines, s.lines)

	total := decimal.Zero
	for _, line := range lines {
		if amount, ok := utils.ParsePrice(line.Price); ok {
			total = total.Add(amount)
		}
	}

	return &models.Cart{
		Lines: lines,
		Total: utils.FormatINR(total),
	}
}
