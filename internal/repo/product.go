package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/jsonshop/internal/docfile"
	"github.com/Skotchmaster/jsonshop/internal/models"
)

// requiredProductFields is also the order in which drafts are checked.
var requiredProductFields = []string{
	"title",
	"description",
	"code",
	"price",
	"status",
	"stock",
	"category",
	"thumbnails",
}

var productTypeMessages = map[string]string{
	"title":       "title must be a string",
	"description": "description must be a string",
	"code":        "code must be a string",
	"price":       "price must be a number",
	"status":      "status must be a boolean",
	"stock":       "stock must be a number",
	"category":    "category must be a string",
	"thumbnails":  "thumbnails must be an array",
}

// ProductStore keeps the product collection in one JSON document file.
type ProductStore struct {
	file *docfile.File[models.Product]
}

func NewProductStore(path string) *ProductStore {
	return &ProductStore{file: docfile.New[models.Product](path)}
}

func (s *ProductStore) Path() string {
	return s.file.Path()
}

// Ping loads the collection and reports whether it can be read.
func (s *ProductStore) Ping(ctx context.Context) error {
	_, err := s.file.LoadAll(ctx)
	return err
}

func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.file.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		normalizeProduct(&products[i])
	}
	return products, nil
}

func (s *ProductStore) GetByID(ctx context.Context, id int) (models.Product, error) {
	var found models.Product
	err := s.file.View(ctx, func(products []models.Product) error {
		i := productIndex(products, id)
		if i < 0 {
			return ErrNotFound
		}
		found = products[i]
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}
	normalizeProduct(&found)
	return found, nil
}

// Create validates a decoded JSON draft, assigns the next id and persists the
// product. Any id in the draft is ignored.
func (s *ProductStore) Create(ctx context.Context, draft map[string]any) (models.Product, error) {
	product, err := productFromDraft(draft)
	if err != nil {
		return models.Product{}, err
	}

	err = s.file.Update(ctx, func(products []models.Product) ([]models.Product, error) {
		for _, p := range products {
			if p.Code == product.Code {
				return nil, &ConflictError{Field: "code", Value: product.Code}
			}
		}
		product.ID = nextID(products, func(p models.Product) int { return p.ID })
		return append(products, product), nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// Update merges fields over the stored product. The stored id always wins.
// Field values are not re-validated beyond what the product's field types can
// hold, but a code already used by another product is rejected. A null for
// any product field is rejected as well.
func (s *ProductStore) Update(ctx context.Context, id int, fields map[string]any) (models.Product, error) {
	var updated models.Product
	err := s.file.Update(ctx, func(products []models.Product) ([]models.Product, error) {
		i := productIndex(products, id)
		if i < 0 {
			return nil, ErrNotFound
		}

		merged, err := mergeProduct(products[i], fields)
		if err != nil {
			return nil, err
		}
		for j, p := range products {
			if j != i && p.Code == merged.Code {
				return nil, &ConflictError{Field: "code", Value: merged.Code}
			}
		}

		products[i] = merged
		updated = merged
		return products, nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return updated, nil
}

// Delete removes the product. On ErrNotFound the file is not rewritten.
func (s *ProductStore) Delete(ctx context.Context, id int) error {
	return s.file.Update(ctx, func(products []models.Product) ([]models.Product, error) {
		i := productIndex(products, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		return append(products[:i], products[i+1:]...), nil
	})
}

func productIndex(products []models.Product, id int) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func normalizeProduct(p *models.Product) {
	if p.Thumbnails == nil {
		p.Thumbnails = []string{}
	}
}

func productFromDraft(draft map[string]any) (models.Product, error) {
	for _, field := range requiredProductFields {
		if _, ok := draft[field]; !ok {
			return models.Product{}, &ValidationError{Field: field, Msg: "missing required field: " + field}
		}
	}

	var p models.Product
	var ok bool

	if p.Title, ok = draft["title"].(string); !ok {
		return models.Product{}, typeError("title")
	}
	if p.Description, ok = draft["description"].(string); !ok {
		return models.Product{}, typeError("description")
	}
	if p.Code, ok = draft["code"].(string); !ok {
		return models.Product{}, typeError("code")
	}
	if p.Price, ok = toFloat(draft["price"]); !ok {
		return models.Product{}, typeError("price")
	}
	if p.Status, ok = draft["status"].(bool); !ok {
		return models.Product{}, typeError("status")
	}
	if p.Stock, ok = toFloat(draft["stock"]); !ok {
		return models.Product{}, typeError("stock")
	}
	if p.Category, ok = draft["category"].(string); !ok {
		return models.Product{}, typeError("category")
	}

	thumbnails, err := toStrings(draft["thumbnails"])
	if err != nil {
		return models.Product{}, err
	}
	p.Thumbnails = thumbnails

	return p, nil
}

func typeError(field string) *ValidationError {
	return &ValidationError{Field: field, Msg: productTypeMessages[field]}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toStrings(v any) ([]string, error) {
	switch items := v.(type) {
	case []string:
		return append([]string{}, items...), nil
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, &ValidationError{Field: "thumbnails", Msg: "thumbnails must be an array of strings"}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, typeError("thumbnails")
	}
}

func mergeProduct(current models.Product, fields map[string]any) (models.Product, error) {
	for _, field := range requiredProductFields {
		if v, ok := fields[field]; ok && v == nil {
			return models.Product{}, typeError(field)
		}
	}

	raw, err := json.Marshal(current)
	if err != nil {
		return models.Product{}, fmt.Errorf("encode product %d: %w", current.ID, err)
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.Product{}, fmt.Errorf("decode product %d: %w", current.ID, err)
	}

	for k, v := range fields {
		if k == "id" {
			continue
		}
		doc[k] = v
	}

	raw, err = json.Marshal(doc)
	if err != nil {
		return models.Product{}, &ValidationError{Msg: "update contains values that cannot be stored"}
	}

	var merged models.Product
	if err := json.Unmarshal(raw, &merged); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field, _, _ := strings.Cut(typeErr.Field, ".")
			msg, ok := productTypeMessages[field]
			if !ok {
				msg = field + " has an invalid type"
			}
			return models.Product{}, &ValidationError{Field: field, Msg: msg}
		}
		return models.Product{}, &ValidationError{Msg: "invalid product update"}
	}

	merged.ID = current.ID
	normalizeProduct(&merged)
	return merged, nil
}
