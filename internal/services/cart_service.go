// internal/services/cart_service.go
package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/grocery-browser/internal/cart"
	"github.com/javajoker/grocery-browser/internal/metrics"
	"github.com/javajoker/grocery-browser/internal/models"
)

// ProductLookup resolves catalog products by id.
type ProductLookup interface {
	Product(id string) (models.Product, error)
}

type CartView struct {
	SessionID string       `json:"session_id"`
	Entries   []cart.Entry `json:"entries"`
	Totals    cart.Totals  `json:"totals"`
}

type cartSession struct {
	cart     *cart.Cart
	lastSeen time.Time
}

// CartService keeps one in-memory cart per session. All cart operations run
// under the service lock.
type CartService struct {
	products  ProductLookup
	newCharge func() cart.Charge
	ttl       time.Duration
	metrics   *metrics.Registry
	now       func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*cartSession

	stop chan struct{}
	once sync.Once
}

func NewCartService(products ProductLookup, chargeModel string, taxRate float64, ttl time.Duration, reg *metrics.Registry) *CartService {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &CartService{
		products:  products,
		newCharge: func() cart.Charge { return cart.NewCharge(chargeModel, taxRate) },
		ttl:       ttl,
		metrics:   reg,
		now:       time.Now,
		sessions:  make(map[uuid.UUID]*cartSession),
		stop:      make(chan struct{}),
	}
}

// StartSweeper expires idle sessions every interval until Stop is called.
func (s *CartService) StartSweeper(interval time.Duration) {
	if s.ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					logrus.WithField("expired", n).Debug("Expired cart sessions")
				}
			}
		}
	}()
}

func (s *CartService) Stop() {
	s.once.Do(func() { close(s.stop) })
}

// Sweep drops sessions idle for longer than the TTL and returns how many.
func (s *CartService) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return 0
	}
	now := s.now()
	expired := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
			expired++
		}
	}
	s.metrics.CartSessions.Set(float64(len(s.sessions)))
	return expired
}

func (s *CartService) Create() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	sess := &cartSession{cart: cart.New(s.newCharge()), lastSeen: s.now()}
	s.sessions[id] = sess
	s.metrics.CartSessions.Set(float64(len(s.sessions)))
	return view(id, sess.cart)
}

func (s *CartService) Get(sessionID string) (CartView, error) {
	return s.mutate(sessionID, "", func(*cart.Cart) error { return nil })
}

// Add puts a catalog product into the cart. The product must exist in the
// current catalog snapshot.
func (s *CartService) Add(sessionID, productID string) (CartView, error) {
	product, err := s.products.Product(productID)
	if err != nil {
		return CartView{}, err
	}
	return s.mutate(sessionID, "add", func(c *cart.Cart) error {
		c.Add(product)
		return nil
	})
}

func (s *CartService) Increment(sessionID, productID string) (CartView, error) {
	return s.mutate(sessionID, "increment", func(c *cart.Cart) error {
		c.Increment(productID)
		return nil
	})
}

func (s *CartService) Decrement(sessionID, productID string) (CartView, error) {
	return s.mutate(sessionID, "decrement", func(c *cart.Cart) error {
		c.Decrement(productID)
		return nil
	})
}

func (s *CartService) Remove(sessionID, productID string) (CartView, error) {
	return s.mutate(sessionID, "remove", func(c *cart.Cart) error {
		c.Remove(productID)
		return nil
	})
}

func (s *CartService) Clear(sessionID string) (CartView, error) {
	return s.mutate(sessionID, "clear", func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

func (s *CartService) SelectOffer(sessionID, productID string, index int) (CartView, error) {
	return s.mutate(sessionID, "select_offer", func(c *cart.Cart) error {
		return c.SelectOffer(productID, index)
	})
}

func (s *CartService) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *CartService) mutate(sessionID, op string, fn func(*cart.Cart) error) (CartView, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return CartView{}, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return CartView{}, ErrSessionNotFound
	}
	sess.lastSeen = s.now()

	if err := fn(sess.cart); err != nil {
		return CartView{}, err
	}
	if op != "" {
		s.metrics.CartMutations.WithLabelValues(op).Inc()
	}
	return view(id, sess.cart), nil
}

func view(id uuid.UUID, c *cart.Cart) CartView {
	return CartView{
		SessionID: id.String(),
		Entries:   c.Entries(),
		Totals:    c.Totals(),
	}
}
