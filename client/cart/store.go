// Package cart keeps the logged-in user's cart in step with the server.
// Every mutation is followed by a full refresh; nothing is applied locally.
package cart

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/steakz-restaurant/client/api"
	"github.com/yeremiapane/steakz-restaurant/models"
)

type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StatePopulated State = "populated"
	StateError     State = "error"
)

const (
	MsgLoginRequired = "Please log in to add items to cart"
	MsgFetchFailed   = "Failed to fetch cart"
	MsgAddFailed     = "Failed to add item to cart"
	MsgUpdateFailed  = "Failed to update item"
	MsgRemoveFailed  = "Failed to remove item"
	MsgClearFailed   = "Failed to clear cart"
)

var ErrLoginRequired = errors.New(MsgLoginRequired)

// API is the cart part of the API client.
type API interface {
	Cart(ctx context.Context) (*models.Cart, error)
	AddToCart(ctx context.Context, menuItemID uint, quantity int) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, cartItemID uint, quantity int) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, cartItemID uint) (*models.Cart, error)
	ClearCart(ctx context.Context) (*models.Cart, error)
}

type Auth interface {
	IsAuthenticated() bool
}

// Snapshot is a copy of the store state; holders may keep it.
type Snapshot struct {
	State State
	Cart  *models.Cart
	Error string
}

// ItemCount is the server's item count, zero without a cart.
func (s Snapshot) ItemCount() int {
	if s.Cart == nil {
		return 0
	}
	return s.Cart.ItemCount
}

// Total is the server's total, zero without a cart.
func (s Snapshot) Total() float64 {
	if s.Cart == nil {
		return 0
	}
	return s.Cart.Total
}

type Option func(*Store)

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

type Store struct {
	api  API
	auth Auth
	log  logrus.FieldLogger

	mu       sync.Mutex
	state    State
	cart     *models.Cart
	err      string
	inflight int
	// epoch changes on Reset; responses to requests started earlier are dropped.
	epoch uint64
	subs  map[int]func(Snapshot)
	next  int
}

func NewStore(a API, auth Auth, opts ...Option) *Store {
	l := logrus.New()
	l.SetOutput(io.Discard)
	s := &Store{api: a, auth: auth, log: l, state: StateIdle, subs: make(map[int]func(Snapshot))}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe calls fn with every new snapshot until the returned func is called.
// fn runs on the goroutine that changed the state and must not block.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{State: s.state, Error: s.err}
	if s.cart != nil {
		c := *s.cart
		c.CartItems = append([]models.CartItem(nil), s.cart.CartItems...)
		snap.Cart = &c
	}
	return snap
}

// publish must be called with s.mu held; it releases it.
func (s *Store) publish() {
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

// ItemCount and Total derive from the last applied cart.
func (s *Store) ItemCount() int { return s.Snapshot().ItemCount() }

func (s *Store) Total() float64 { return s.Snapshot().Total() }

// Refresh fetches the cart. Without a session it empties the local cart
// instead. A failed fetch keeps the previous cart and records the error.
func (s *Store) Refresh(ctx context.Context) error {
	if !s.auth.IsAuthenticated() {
		s.mu.Lock()
		s.cart = nil
		s.err = ""
		s.state = StateIdle
		s.publish()
		return nil
	}

	s.mu.Lock()
	epoch := s.epoch
	s.inflight++
	s.state = StateLoading
	s.publish()

	fetched, err := s.api.Cart(ctx)

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return nil
	}
	s.inflight--
	if err != nil {
		s.log.WithError(err).Error("Error fetching cart")
		s.err = api.Message(err, MsgFetchFailed)
		s.state = StateError
		s.publish()
		return err
	}
	if s.cart == nil || fetched.Version >= s.cart.Version {
		s.cart = fetched
	}
	s.err = ""
	s.state = StatePopulated
	if s.inflight > 0 {
		s.state = StateLoading
	}
	s.publish()
	return nil
}

// mutate runs call and refreshes on success. A failure is recorded unless the
// store was reset while the call was in flight.
func (s *Store) mutate(ctx context.Context, action, fallback string, call func() error) error {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	if err := call(); err != nil {
		s.log.WithError(err).Error("Error " + action)
		s.mu.Lock()
		if s.epoch != epoch {
			s.mu.Unlock()
			return err
		}
		s.err = api.Message(err, fallback)
		s.state = StateError
		s.publish()
		return err
	}
	return s.Refresh(ctx)
}

// Add puts quantity of a menu item in the cart; a non-positive quantity adds one.
// It fails without a network call when nobody is logged in.
func (s *Store) Add(ctx context.Context, menuItemID uint, quantity int) error {
	if !s.auth.IsAuthenticated() {
		s.mu.Lock()
		s.err = MsgLoginRequired
		s.state = StateError
		s.publish()
		return ErrLoginRequired
	}
	if quantity <= 0 {
		quantity = 1
	}
	return s.mutate(ctx, "adding to cart", MsgAddFailed, func() error {
		_, err := s.api.AddToCart(ctx, menuItemID, quantity)
		return err
	})
}

func (s *Store) Update(ctx context.Context, cartItemID uint, quantity int) error {
	return s.mutate(ctx, "updating cart item", MsgUpdateFailed, func() error {
		_, err := s.api.UpdateCartItem(ctx, cartItemID, quantity)
		return err
	})
}

func (s *Store) Remove(ctx context.Context, cartItemID uint) error {
	return s.mutate(ctx, "removing from cart", MsgRemoveFailed, func() error {
		_, err := s.api.RemoveCartItem(ctx, cartItemID)
		return err
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, "clearing cart", MsgClearFailed, func() error {
		_, err := s.api.ClearCart(ctx)
		return err
	})
}

// Reset empties the store immediately, for logout. Requests still in flight
// finish but their results are discarded.
func (s *Store) Reset() {
	s.mu.Lock()
	s.epoch++
	s.inflight = 0
	s.cart = nil
	s.err = ""
	s.state = StateIdle
	s.publish()
}
