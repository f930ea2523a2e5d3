package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/jsonshop/internal/es"
	"github.com/Skotchmaster/jsonshop/internal/events"
	"github.com/Skotchmaster/jsonshop/internal/logging"
	"github.com/Skotchmaster/jsonshop/internal/models"
	"github.com/Skotchmaster/jsonshop/internal/repo"
)

const sinkTimeout = 5 * time.Second

// CatalogService fronts the product store. Successful mutations are announced
// on the product topic and mirrored into the search index; failures of either
// sink are logged and never change the result of the call.
type CatalogService struct {
	Repo   *repo.ProductStore
	Events events.Publisher
	Index  es.Indexer
}

func NewCatalogService(r *repo.ProductStore, pub events.Publisher, idx es.Indexer) *CatalogService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if idx == nil {
		idx = es.NopIndexer{}
	}
	return &CatalogService{Repo: r, Events: pub, Index: idx}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.List(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int) (models.Product, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, draft map[string]any) (models.Product, error) {
	p, err := s.Repo.Create(ctx, draft)
	if err != nil {
		return models.Product{}, err
	}
	s.publish(ctx, "product_created", p.ID, p)
	s.index(ctx, p)
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int, fields map[string]any) (models.Product, error) {
	p, err := s.Repo.Update(ctx, id, fields)
	if err != nil {
		return models.Product{}, err
	}
	s.publish(ctx, "product_updated", p.ID, p)
	s.index(ctx, p)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, "product_deleted", id, map[string]int{"id": id})

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()
	if err := s.Index.DeleteProduct(sctx, id); err != nil {
		logging.FromContext(ctx).Error("es_delete_failed", "product_id", id, "error", err)
	}
	return nil
}

func (s *CatalogService) publish(ctx context.Context, eventType string, id int, data any) {
	publishEvent(ctx, s.Events, events.TopicProducts, eventType, id, data)
}

func (s *CatalogService) index(ctx context.Context, p models.Product) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()
	if err := s.Index.IndexProduct(sctx, p); err != nil {
		logging.FromContext(ctx).Error("es_index_failed", "product_id", p.ID, "error", err)
	}
}

func publishEvent(ctx context.Context, pub events.Publisher, topic, eventType string, key int, data any) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()
	if err := pub.PublishEvent(sctx, topic, strconv.Itoa(key), events.NewEvent(eventType, data)); err != nil {
		logging.FromContext(ctx).Error("publish_event_failed", "topic", topic, "type", eventType, "key", key, "error", err)
	}
}
