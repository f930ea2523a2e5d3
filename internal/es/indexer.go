package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/jsonshop/internal/models"
)

// Indexer mirrors products into a search index. The JSON files stay the
// source of truth.
type Indexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id int) error
}

type ProductIndexer struct {
	ES    *elasticsearch.Client
	Index string
}

func NewProductIndexer(client *elasticsearch.Client, index string) *ProductIndexer {
	return &ProductIndexer{ES: client, Index: index}
}

func (x *ProductIndexer) IndexProduct(ctx context.Context, p models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("es: encode product %d: %w", p.ID, err)
	}

	res, err := x.ES.Index(
		x.Index,
		&buf,
		x.ES.Index.WithDocumentID(strconv.Itoa(p.ID)),
		x.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", p.ID, res.Status(), res.Body)
	}
	return nil
}

// DeleteProduct removes the document. A document that is already gone is not
// an error.
func (x *ProductIndexer) DeleteProduct(ctx context.Context, id int) error {
	res, err := x.ES.Delete(x.Index, strconv.Itoa(id), x.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return responseError("delete", id, res.Status(), res.Body)
	}
	return nil
}

func responseError(op string, id int, status string, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 4<<10))
	return fmt.Errorf("es: %s product %d: %s: %s", op, id, status, bytes.TrimSpace(msg))
}

type NopIndexer struct{}

func (NopIndexer) IndexProduct(context.Context, models.Product) error { return nil }
func (NopIndexer) DeleteProduct(context.Context, int) error           { return nil }
