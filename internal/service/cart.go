package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/jsonshop/internal/events"
	"github.com/Skotchmaster/jsonshop/internal/models"
	"github.com/Skotchmaster/jsonshop/internal/repo"
)

// ErrProductNotFound is returned by AddProduct when the product does not
// exist, so callers can tell it apart from a missing cart.
var ErrProductNotFound = errors.New("product not found")

type CartService struct {
	Repo     *repo.CartStore
	Products *repo.ProductStore
	Events   events.Publisher
}

func NewCartService(r *repo.CartStore, products *repo.ProductStore, pub events.Publisher) *CartService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &CartService{Repo: r, Products: products, Events: pub}
}

func (s *CartService) CreateCart(ctx context.Context) (models.Cart, error) {
	cart, err := s.Repo.Create(ctx)
	if err != nil {
		return models.Cart{}, err
	}
	publishEvent(ctx, s.Events, events.TopicCarts, "cart_created", cart.ID, cart)
	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, id int) (models.Cart, error) {
	return s.Repo.GetByID(ctx, id)
}

// AddProduct checks the product first, then the cart.
func (s *CartService) AddProduct(ctx context.Context, cartID, productID int) (models.Cart, error) {
	if _, err := s.Products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Cart{}, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
		}
		return models.Cart{}, err
	}

	cart, err := s.Repo.AddProduct(ctx, cartID, productID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Cart{}, fmt.Errorf("cart %d: %w", cartID, err)
		}
		return models.Cart{}, err
	}

	publishEvent(ctx, s.Events, events.TopicCarts, "cart_product_added", cart.ID, map[string]int{
		"cart_id":    cart.ID,
		"product_id": productID,
	})
	return cart, nil
}
