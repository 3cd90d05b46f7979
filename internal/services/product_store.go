package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidProduct is returned when a record breaks a model invariant.
var ErrInvalidProduct = errors.New("invalid product")

// EventPublisher publishes product change events.
type EventPublisher interface {
	PublishProductEvent(evt rabbitmq.ProductEvent) error
}

// ProductStore holds the authoritative product collection. LoadProducts,
// AddProduct, UpdateProduct and DeleteProduct are its only mutation surface;
// each write reaches the repository before the cached collection changes.
type ProductStore struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	validate  *validator.Validate

	mu       sync.RWMutex
	products []models.Product
	pending  int
}

// NewProductStore creates a new ProductStore. publisher may be nil.
func NewProductStore(repo repositories.ProductRepository, publisher EventPublisher) *ProductStore {
	return &ProductStore{
		repo:      repo,
		publisher: publisher,
		validate:  models.NewValidator(),
	}
}

func (s *ProductStore) begin() {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
}

func (s *ProductStore) end() {
	s.mu.Lock()
	s.pending--
	s.mu.Unlock()
}

// IsLoading reports whether a load or write is in flight.
func (s *ProductStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending > 0
}

// LoadProducts replaces the cached collection with the repository contents.
func (s *ProductStore) LoadProducts(ctx context.Context) error {
	s.begin()
	defer s.end()

	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	log.Printf("Loaded %d products", len(products))
	return nil
}

// AllProducts returns a copy of the cached collection.
func (s *ProductStore) AllProducts() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Product returns the cached record with the given ID.
func (s *ProductStore) Product(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (s *ProductStore) check(p *models.Product) error {
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return fmt.Errorf("%w: price %v is not finite", ErrInvalidProduct, p.Price)
	}
	p.Price = decimal.NewFromFloat(p.Price).Round(2).InexactFloat64()
	if err := s.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	return nil
}

// AddProduct persists a new record and appends it to the collection.
func (s *ProductStore) AddProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if err := s.check(p); err != nil {
		return err
	}

	s.begin()
	defer s.end()

	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("failed to add product %s: %w", p.ID, err)
	}

	s.mu.Lock()
	s.products = append(s.products, *p)
	s.mu.Unlock()

	s.publish(rabbitmq.EventProductCreated, *p)
	return nil
}

// UpdateProduct persists changes to an existing record. The stored creation
// time always wins over the one on p.
func (s *ProductStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	s.begin()
	defer s.end()

	existing, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", p.ID, err)
	}
	p.CreatedAt = existing.CreatedAt
	if err := s.check(p); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to update product %s: %w", p.ID, err)
	}

	s.mu.Lock()
	replaced := false
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = *p
			replaced = true
			break
		}
	}
	if !replaced {
		s.products = append(s.products, *p)
	}
	s.mu.Unlock()

	s.publish(rabbitmq.EventProductUpdated, *p)
	return nil
}

// DeleteProduct removes a record by ID.
func (s *ProductStore) DeleteProduct(ctx context.Context, id string) error {
	s.begin()
	defer s.end()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i:i], s.products[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.publish(rabbitmq.EventProductDeleted, *existing)
	return nil
}

func (s *ProductStore) publish(eventType string, p models.Product) {
	if s.publisher == nil {
		return
	}
	evt := rabbitmq.ProductEvent{
		Type:       eventType,
		ProductID:  p.ID,
		SKU:        p.SKU,
		Name:       p.Name,
		Status:     string(p.Status),
		Quantity:   p.QuantityInStock,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.PublishProductEvent(evt); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %s: %v", eventType, p.ID, err)
	}
}
