package service

import (
	"sync"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
)

// QuantityPicker tracks the pending add-to-cart quantity per product on a
// listing page. Quantities never go below zero.
type QuantityPicker struct {
	mu      sync.Mutex
	pending map[uint]int
}

func NewQuantityPicker() *QuantityPicker {
	return &QuantityPicker{pending: make(map[uint]int)}
}

// Seed copies cart quantities (product id -> qty) into the picker. An empty
// cart leaves the current values alone.
func (p *QuantityPicker) Seed(items []model.CartItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range items {
		if item.Product == nil || item.Product.ID == 0 {
			continue
		}
		p.pending[item.Product.ID] = item.Qty.Int()
	}
}

func (p *QuantityPicker) Get(productID uint) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending[productID]
}

// Change applies delta and returns the new quantity, clamped at zero.
func (p *QuantityPicker) Change(productID uint, delta int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := p.pending[productID] + delta
	if next < 0 {
		next = 0
	}
	p.pending[productID] = next
	return next
}

func (p *QuantityPicker) Reset(productID uint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending[productID] = 0
}

// All returns a copy of every tracked quantity
func (p *QuantityPicker) All() map[uint]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[uint]int, len(p.pending))
	for id, qty := range p.pending {
		out[id] = qty
	}
	return out
}
