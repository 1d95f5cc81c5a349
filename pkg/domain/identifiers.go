package domain

// Name identifies an account holder.
//
// Name and Address share a string representation but are distinct named types:
// the compiler rejects passing one where the other is expected, so the brand is
// checked at compile time and costs nothing at runtime.
type Name string

// Address is a postal address.
type Address string

// NewName wraps raw without transformation or validation.
func NewName(raw string) Name {
	return Name(raw)
}

// NewAddress wraps raw without transformation or validation.
func NewAddress(raw string) Address {
	return Address(raw)
}

func (n Name) String() string {
	return string(n)
}

func (a Address) String() string {
	return string(a)
}
