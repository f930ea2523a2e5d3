package repo

import (
	"context"

	"github.com/Skotchmaster/jsonshop/internal/docfile"
	"github.com/Skotchmaster/jsonshop/internal/models"
)

// CartStore keeps the cart collection in one JSON document file. It never
// looks at products: callers resolve a product before linking it to a cart.
type CartStore struct {
	file *docfile.File[models.Cart]
}

func NewCartStore(path string) *CartStore {
	return &CartStore{file: docfile.New[models.Cart](path)}
}

func (s *CartStore) Path() string {
	return s.file.Path()
}

func (s *CartStore) Ping(ctx context.Context) error {
	_, err := s.file.LoadAll(ctx)
	return err
}

func (s *CartStore) Create(ctx context.Context) (models.Cart, error) {
	var cart models.Cart
	err := s.file.Update(ctx, func(carts []models.Cart) ([]models.Cart, error) {
		cart = models.Cart{
			ID:       nextID(carts, func(c models.Cart) int { return c.ID }),
			Products: []models.LineItem{},
		}
		return append(carts, cart), nil
	})
	if err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

func (s *CartStore) GetByID(ctx context.Context, id int) (models.Cart, error) {
	var found models.Cart
	err := s.file.View(ctx, func(carts []models.Cart) error {
		i := cartIndex(carts, id)
		if i < 0 {
			return ErrNotFound
		}
		found = carts[i]
		return nil
	})
	if err != nil {
		return models.Cart{}, err
	}
	if found.Products == nil {
		found.Products = []models.LineItem{}
	}
	return found, nil
}

// AddProduct adds one unit of productID to the cart, merging into an existing
// line for that product.
func (s *CartStore) AddProduct(ctx context.Context, cartID, productID int) (models.Cart, error) {
	var updated models.Cart
	err := s.file.Update(ctx, func(carts []models.Cart) ([]models.Cart, error) {
		i := cartIndex(carts, cartID)
		if i < 0 {
			return nil, ErrNotFound
		}

		cart := carts[i]
		merged := false
		for j := range cart.Products {
			if cart.Products[j].Product == productID {
				cart.Products[j].Quantity++
				merged = true
				break
			}
		}
		if !merged {
			cart.Products = append(cart.Products, models.LineItem{Product: productID, Quantity: 1})
		}

		carts[i] = cart
		updated = cart
		return carts, nil
	})
	if err != nil {
		return models.Cart{}, err
	}
	return updated, nil
}

func cartIndex(carts []models.Cart, id int) int {
	for i, c := range carts {
		if c.ID == id {
			return i
		}
	}
	return -1
}
