package arbitrary

import (
	"github.com/brianvoe/gofakeit/v7"

	"accountd/internal/account/models"
	"accountd/pkg/domain"
)

const defaultAbsentAddressPercent = 33

// Generator draws accounts from per-type strategies. A Generator is not safe
// for concurrent use; build one per goroutine or per request.
type Generator struct {
	faker         *gofakeit.Faker
	name          Arbitrary[domain.Name]
	address       Arbitrary[domain.Address]
	absentPercent int
}

// Option configures a Generator.
type Option func(*Generator)

// WithName overrides the Name strategy only.
func WithName(a Arbitrary[domain.Name]) Option {
	return func(g *Generator) {
		if a != nil {
			g.name = a
		}
	}
}

// WithAddress overrides the Address strategy only.
func WithAddress(a Arbitrary[domain.Address]) Option {
	return func(g *Generator) {
		if a != nil {
			g.address = a
		}
	}
}

// WithAbsentAddressPercent sets how often a verified account has no address.
// Values are clamped to [0, 100].
func WithAbsentAddressPercent(p int) Option {
	return func(g *Generator) {
		g.absentPercent = min(max(p, 0), 100)
	}
}

// WithSeed makes the generator reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.faker = gofakeit.New(seed)
	}
}

// New builds a Generator. Without WithSeed every Generator draws from a fresh
// random seed.
func New(opts ...Option) *Generator {
	g := &Generator{
		name:          DefaultName(),
		address:       DefaultAddress(),
		absentPercent: defaultAbsentAddressPercent,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.faker == nil {
		g.faker = gofakeit.New(0)
	}
	return g
}

// Account draws one account. Each variant is equally likely.
func (g *Generator) Account() models.Account {
	created := models.NewCreatedAccount(g.name(g.faker))
	switch g.faker.Number(0, 2) {
	case 0:
		return created
	case 1:
		return models.Verify(created, g.verifiedAddress())
	default:
		return models.Delete(models.Verify(created, g.verifiedAddress()))
	}
}

// Sample draws n independent accounts. n <= 0 yields an empty slice.
func (g *Generator) Sample(n int) []models.Account {
	return SampleOf(g, func(*gofakeit.Faker) models.Account { return g.Account() }, n)
}

// SampleOf draws n values from a using g's random source.
func SampleOf[T any](g *Generator, a Arbitrary[T], n int) []T {
	if n <= 0 {
		return []T{}
	}
	out := make([]T, n)
	for i := range out {
		out[i] = a(g.faker)
	}
	return out
}

func (g *Generator) verifiedAddress() domain.Option[domain.Address] {
	return Optional(g.address, g.absentPercent)(g.faker)
}
