// Package arbitrary produces random, structurally valid accounts for tests,
// fixtures and load generation.
//
// Every account is built through models.NewCreatedAccount, models.Verify and
// models.Delete, so a generated value satisfies the same invariants as one
// produced by the lifecycle itself. Strategies for individual field types can
// be overridden without touching the others:
//
//	g := arbitrary.New(arbitrary.WithName(arbitrary.SmallName()))
//	accounts := g.Sample(10)
package arbitrary

import (
	"github.com/brianvoe/gofakeit/v7"

	"accountd/pkg/domain"
)

// Arbitrary is a generation strategy for T.
type Arbitrary[T any] func(f *gofakeit.Faker) T

// Map derives a strategy for U from one for T.
func Map[T, U any](a Arbitrary[T], fn func(T) U) Arbitrary[U] {
	return func(f *gofakeit.Faker) U {
		return fn(a(f))
	}
}

// Constant always yields v.
func Constant[T any](v T) Arbitrary[T] {
	return func(*gofakeit.Faker) T {
		return v
	}
}

// Pattern yields strings matching the regular expression re.
func Pattern(re string) Arbitrary[string] {
	return func(f *gofakeit.Faker) string {
		return f.Regex(re)
	}
}

// DefaultName yields realistic full person names.
func DefaultName() Arbitrary[domain.Name] {
	return func(f *gofakeit.Faker) domain.Name {
		return domain.NewName(f.Name())
	}
}

// SmallName yields names of exactly three ASCII letters.
func SmallName() Arbitrary[domain.Name] {
	return Map(Pattern("[a-zA-Z]{3}"), domain.NewName)
}

// DefaultAddress yields realistic single-line postal addresses.
func DefaultAddress() Arbitrary[domain.Address] {
	return func(f *gofakeit.Faker) domain.Address {
		return domain.NewAddress(f.Address().Address)
	}
}

// Optional yields None roughly absentPercent percent of the time and Some of a
// value drawn from a otherwise.
func Optional[T any](a Arbitrary[T], absentPercent int) Arbitrary[domain.Option[T]] {
	return func(f *gofakeit.Faker) domain.Option[T] {
		if f.Number(1, 100) <= absentPercent {
			return domain.None[T]()
		}
		return domain.Some(a(f))
	}
}
