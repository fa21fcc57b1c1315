package catalog

import (
	"context"
	"errors"
	"time"

	"recordhub/internal/platform/metrics"
	"recordhub/pkg/domain"
	dErrors "recordhub/pkg/domain-errors"
	"recordhub/pkg/platform/sentinel"
	"recordhub/pkg/requestcontext"
)

// Store is the persistence port the service depends on. The in-memory store
// is the only implementation; the interface keeps tests and future backends
// decoupled from it.
type Store interface {
	Create(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id domain.ItemID) (*Item, error)
	Execute(ctx context.Context, id domain.ItemID, validate func(*Item) error, mutate func(*Item)) (*Item, error)
	Delete(ctx context.Context, id domain.ItemID) (*Item, error)
	List(ctx context.Context, filter Filter) ([]*Item, error)
	Count(ctx context.Context) int
}

// Service orchestrates the item lifecycle: validation, identifier assignment,
// timestamps and store access.
type Service struct {
	store   Store
	metrics *metrics.Metrics
}

func NewService(store Store, m *metrics.Metrics) *Service {
	return &Service{store: store, metrics: m}
}

// CreateItem validates the candidate fields and stores a new item.
// All-or-nothing: on any validation failure nothing is stored.
func (s *Service) CreateItem(ctx context.Context, name, description string, price *float64, inStock bool) (*Item, error) {
	item, err := NewItem(name, description, price, inStock, requestcontext.Now(ctx))
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordValidationFailure(metrics.DomainCatalog)
		}
		return nil, err
	}
	if err := s.store.Create(ctx, item); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store item")
	}
	if s.metrics != nil {
		s.metrics.RecordCreated(metrics.DomainCatalog)
	}
	return item, nil
}

func (s *Service) GetItem(ctx context.Context, id domain.ItemID) (*Item, error) {
	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, wrapItemErr(err)
	}
	return item, nil
}

// UpdateItem merges the supplied fields into the stored item. Only supplied
// fields are validated; unsupplied fields are retained.
func (s *Service) UpdateItem(ctx context.Context, id domain.ItemID, patch Patch) (*Item, error) {
	now := requestcontext.Now(ctx)
	item, err := s.store.Execute(ctx, id,
		func(*Item) error { return patch.Validate() },
		func(item *Item) { patch.apply(item, now) },
	)
	if err != nil {
		return nil, wrapItemErr(err)
	}
	return item, nil
}

// DeleteItem hard-deletes the item and returns the pre-deletion snapshot.
func (s *Service) DeleteItem(ctx context.Context, id domain.ItemID) (*Item, error) {
	item, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, wrapItemErr(err)
	}
	if s.metrics != nil {
		s.metrics.RecordDeleted(metrics.DomainCatalog)
	}
	return item, nil
}

// ListItems applies the filter over the collection in insertion order.
// Malformed criteria are rejected before filtering runs.
func (s *Service) ListItems(ctx context.Context, filter Filter) ([]*Item, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list items")
	}
	if s.metrics != nil {
		s.metrics.ObserveSearch(metrics.DomainCatalog, start)
	}
	return items, nil
}

// ActiveCount reports the stored item count for the health endpoint.
func (s *Service) ActiveCount(ctx context.Context) int {
	return s.store.Count(ctx)
}

func wrapItemErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "item not found")
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "item operation failed")
}
