package services

import (
	"context"
	"encoding/json"
	"sync"

	"ecofinds/models"
)

const cartKeyPrefix = "ecofinds:cart:"

// CartSlots is the key/value slot the cart persists to. One JSON-encoded
// array of CartLine per owner; last write wins across concurrent surfaces.
type CartSlots interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CartEvent is pushed to subscribers after every mutation, replacing the
// fixed-interval polling the cart badge would otherwise need.
type CartEvent struct {
	Owner     string            `json:"-"`
	Lines     []models.CartLine `json:"lines"`
	LineCount int               `json:"line_count"`
	ItemCount int               `json:"item_count"`
	Subtotal  float64           `json:"subtotal"`
}

// CartHub fans mutation events out to any number of subscribed surfaces.
type CartHub struct {
	mu   sync.Mutex
	subs map[string]map[chan CartEvent]struct{}
}

func NewCartHub() *CartHub {
	return &CartHub{subs: make(map[string]map[chan CartEvent]struct{})}
}

func (h *CartHub) Subscribe(owner string) (<-chan CartEvent, func()) {
	ch := make(chan CartEvent, 8)

	h.mu.Lock()
	if h.subs[owner] == nil {
		h.subs[owner] = make(map[chan CartEvent]struct{})
	}
	h.subs[owner][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[owner]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, owner)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *CartHub) publish(ev CartEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[ev.Owner] {
		select {
		case ch <- ev:
		default:
			// slow subscriber, drop rather than block the mutation
		}
	}
}

// CartService owns the cart slot of each identity. Every mutating operation
// reads, modifies and rewrites the whole sequence, then persists before
// returning and notifies subscribers.
type CartService struct {
	slots CartSlots
	hub   *CartHub
}

func NewCartService(slots CartSlots, hub *CartHub) *CartService {
	return &CartService{slots: slots, hub: hub}
}

func cartKey(owner string) string {
	return cartKeyPrefix + owner
}

// Load fails soft: an absent or unparsable slot yields an empty cart, never
// an error to the caller.
func (s *CartService) Load(ctx context.Context, owner string) []models.CartLine {
	raw, found, err := s.slots.Get(ctx, cartKey(owner))
	if err != nil || !found {
		return []models.CartLine{}
	}

	var lines []models.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return []models.CartLine{}
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	return lines
}

func (s *CartService) Save(ctx context.Context, owner string, lines []models.CartLine) error {
	if lines == nil {
		lines = []models.CartLine{}
	}

	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	if err := s.slots.Set(ctx, cartKey(owner), string(raw)); err != nil {
		return err
	}

	s.notify(owner, lines)
	return nil
}

// AddOrIncrement bumps the quantity of an existing line or appends a new one
// with quantity 1. Title, price and image are snapshotted from the product
// now; later product edits do not change the line.
func (s *CartService) AddOrIncrement(ctx context.Context, owner string, product models.Product) ([]models.CartLine, error) {
	lines := s.Load(ctx, owner)

	found := false
	for i := range lines {
		if lines[i].ProductID == product.ID {
			lines[i].Quantity++
			found = true
			break
		}
	}

	if !found {
		lines = append(lines, models.CartLine{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Quantity:  1,
			ImageURL:  product.ImageURL,
		})
	}

	if err := s.Save(ctx, owner, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// SetQuantity sets a line's quantity; n <= 0 removes the line. Unknown
// product ids are a no-op.
func (s *CartService) SetQuantity(ctx context.Context, owner string, productID, n int) ([]models.CartLine, error) {
	lines := s.Load(ctx, owner)

	if n <= 0 {
		return s.removeLine(ctx, owner, lines, productID)
	}

	changed := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = n
			changed = true
			break
		}
	}
	if !changed {
		return lines, nil
	}

	if err := s.Save(ctx, owner, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Remove drops the line if present; removing an absent line is fine.
func (s *CartService) Remove(ctx context.Context, owner string, productID int) ([]models.CartLine, error) {
	return s.removeLine(ctx, owner, s.Load(ctx, owner), productID)
}

func (s *CartService) removeLine(ctx context.Context, owner string, lines []models.CartLine, productID int) ([]models.CartLine, error) {
	kept := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}

	if err := s.Save(ctx, owner, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

func (s *CartService) Clear(ctx context.Context, owner string) error {
	return s.Save(ctx, owner, []models.CartLine{})
}

func (s *CartService) notify(owner string, lines []models.CartLine) {
	if s.hub == nil {
		return
	}
	s.hub.publish(CartEvent{
		Owner:     owner,
		Lines:     lines,
		LineCount: LineCount(lines),
		ItemCount: ItemCount(lines),
		Subtotal:  Subtotal(lines),
	})
}

// LineCount is the number of distinct lines.
func LineCount(lines []models.CartLine) int {
	return len(lines)
}

// ItemCount is the sum of quantities across lines.
func ItemCount(lines []models.CartLine) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}

// Subtotal is the sum of price times quantity across lines.
func Subtotal(lines []models.CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}
