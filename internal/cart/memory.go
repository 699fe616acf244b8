package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/shopflow/internal/domain"
)

// MemoryStore implements Store for tests and local development.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string][]domain.CartItem // keyed by cart id, insertion order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]domain.CartItem)}
}

func (s *MemoryStore) AddItem(_ context.Context, cartID, productID, attributes string, quantity int, unitPrice int64) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.items[cartID]
	for i := range lines {
		if lines[i].ProductID == productID && lines[i].Attributes == attributes {
			lines[i].Quantity += quantity
			item := lines[i]
			return &item, nil
		}
	}

	item := domain.CartItem{
		ID:         uuid.New().String(),
		CartID:     cartID,
		ProductID:  productID,
		Attributes: attributes,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		AddedAt:    time.Now().UTC(),
	}
	s.items[cartID] = append(lines, item)
	return &item, nil
}

func (s *MemoryStore) ListItems(_ context.Context, cartID string) ([]domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.CartItem{}, s.items[cartID]...), nil
}

func (s *MemoryStore) GetItem(_ context.Context, itemID string) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, lines := range s.items {
		for i := range lines {
			if lines[i].ID == itemID {
				item := lines[i]
				return &item, nil
			}
		}
	}
	return nil, nil
}

func (s *MemoryStore) UpdateItem(_ context.Context, itemID string, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for cartID, lines := range s.items {
		for i := range lines {
			if lines[i].ID == itemID {
				s.items[cartID][i].Quantity = quantity
				item := s.items[cartID][i]
				return &item, nil
			}
		}
	}
	return nil, ErrItemNotFound
}

func (s *MemoryStore) RemoveItem(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for cartID, lines := range s.items {
		for i := range lines {
			if lines[i].ID == itemID {
				s.items[cartID] = append(lines[:i], lines[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (s *MemoryStore) Empty(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, cartID)
	return nil
}
