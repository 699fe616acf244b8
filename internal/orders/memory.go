package orders

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/shopflow/internal/domain"
)

// MemoryStore implements Store for tests and local development. MarkPaid
// holds the mutex across the status check and write, giving it the same
// compare-and-swap contract as the SQL repository.
type MemoryStore struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*domain.Order)}
}

func (s *MemoryStore) Create(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = uuid.New().String()
	order.Status = domain.OrderStatusUnpaid
	cp := *order
	cp.Items = append([]domain.OrderItem(nil), order.Items...)
	s.orders[order.ID] = &cp
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *order
	cp.Items = append([]domain.OrderItem(nil), order.Items...)
	return &cp, nil
}

func (s *MemoryStore) GetForCustomer(ctx context.Context, id, customerID string) (*domain.Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil || order == nil {
		return order, err
	}
	if order.CustomerID != customerID {
		return nil, nil
	}
	return order, nil
}

func (s *MemoryStore) ListByCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []domain.Order{}
	for _, order := range s.orders {
		if order.CustomerID == customerID {
			cp := *order
			cp.Items = append([]domain.OrderItem(nil), order.Items...)
			result = append(result, cp)
		}
	}
	return result, nil
}

func (s *MemoryStore) MarkPaid(_ context.Context, id, chargeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok || order.Status != domain.OrderStatusUnpaid {
		return ErrAlreadyPaid
	}
	now := time.Now().UTC()
	order.Status = domain.OrderStatusPaid
	order.ChargeID = chargeID
	order.PaidAt = &now
	return nil
}
