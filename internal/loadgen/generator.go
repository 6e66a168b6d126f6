// Package loadgen simulates live-stream audiences buying through the storefront API.
package loadgen

import (
	"errors"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// ErrNoProducts is returned when the generator has nothing to sell
var ErrNoProducts = errors.New("loadgen: at least one product id is required")

// Customer is one simulated viewer
type Customer struct {
	Phone        string
	SocialHandle string
	Name         string
}

// Sale is the body of POST /sales
type Sale struct {
	Phone        string    `json:"phone,omitempty"`
	SocialHandle string    `json:"social_handle,omitempty"`
	Name         string    `json:"name,omitempty"`
	ProductID    uuid.UUID `json:"product_id"`
	Quantity     int       `json:"quantity"`
	Channel      string    `json:"channel"`
}

// Generator produces sales from a fixed audience so that the same customers
// buy repeatedly and their orders grow. Safe for concurrent use.
type Generator struct {
	mu        sync.Mutex
	faker     *gofakeit.Faker
	customers []Customer
	products  []uuid.UUID
	bazarPct  int
}

// NewGenerator creates an audience of n customers. A zero seed is random.
func NewGenerator(products []uuid.UUID, n int, bazarPercent int, seed uint64) (*Generator, error) {
	if len(products) == 0 {
		return nil, ErrNoProducts
	}
	if n <= 0 {
		n = 50
	}
	f := gofakeit.New(seed)

	customers := make([]Customer, n)
	for i := range customers {
		c := Customer{
			Phone: f.Numerify("119########"),
			Name:  f.Name(),
		}
		// Some viewers are also known by their social handle
		if f.IntRange(1, 10) <= 3 {
			c.SocialHandle = "@" + f.Username()
		}
		customers[i] = c
	}

	return &Generator{
		faker:     f,
		customers: customers,
		products:  append([]uuid.UUID(nil), products...),
		bazarPct:  min(max(bazarPercent, 0), 100),
	}, nil
}

// Customers returns the simulated audience
func (g *Generator) Customers() []Customer {
	return g.customers
}

// NextSale picks a customer, a product, a quantity between 1 and 3 and a channel
func (g *Generator) NextSale() Sale {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := g.customers[g.faker.IntRange(0, len(g.customers)-1)]
	channel := "LIVE"
	if g.faker.IntRange(1, 100) <= g.bazarPct {
		channel = "BAZAR"
	}
	return Sale{
		Phone:        c.Phone,
		SocialHandle: c.SocialHandle,
		Name:         c.Name,
		ProductID:    g.products[g.faker.IntRange(0, len(g.products)-1)],
		Quantity:     g.faker.IntRange(1, 3),
		Channel:      channel,
	}
}

// Chance reports true with probability p in [0, 1]
func (g *Generator) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.Float64() < p
}

// IdempotencyKey returns a fresh key for one sale
func (g *Generator) IdempotencyKey() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.UUID()
}
