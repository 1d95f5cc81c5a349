package domain

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func acceptsName(n Name) string { return n.String() }

// TestBrandNominality documents that Name and Address are not interchangeable.
// The following would fail to compile:
//
//	var n Name = NewAddress("52 Avenue Trudaine")
//	acceptsName(NewAddress("52 Avenue Trudaine"))
func TestBrandNominality(t *testing.T) {
	address := NewAddress("52 Avenue Trudaine")
	name := NewName("52 Avenue Trudaine")

	assert.Equal(t, address.String(), name.String(), "same raw representation")
	assert.NotEqual(t, reflect.TypeOf(address), reflect.TypeOf(name))
	assert.False(t, reflect.TypeOf(address).AssignableTo(reflect.TypeOf(name)))
	assert.False(t, reflect.TypeOf(name).AssignableTo(reflect.TypeOf(address)))

	// An explicit conversion is the only way across the brand.
	assert.Equal(t, "52 Avenue Trudaine", acceptsName(Name(address)))
}

func TestConstructorsAreIdentity(t *testing.T) {
	for _, raw := range []string{"", "Oscar", "  padded  ", "ünïcödé"} {
		assert.Equal(t, raw, string(NewName(raw)))
		assert.Equal(t, raw, string(NewAddress(raw)))
	}
}
