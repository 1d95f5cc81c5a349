package models

import "accountd/pkg/domain"

// Account is the closed union of lifecycle variants.
//
// Invariants:
//   - Exactly three implementations exist: CreatedAccount, VerifiedAccount and
//     DeletedAccount. The unexported marker method keeps the set closed.
//   - Status always returns the variant's own tag.
//   - Only VerifiedAccount carries an address.
//   - Values are immutable: fields are unexported and every transition returns
//     a new value.
//
// Consumers switch on the concrete type:
//
//	switch a := acct.(type) {
//	case models.CreatedAccount:
//	case models.VerifiedAccount:
//	case models.DeletedAccount:
//	}
type Account interface {
	Name() domain.Name
	Status() Status
	account()
}

// CreatedAccount is a freshly registered account.
type CreatedAccount struct {
	name domain.Name
}

// NewCreatedAccount is the only way to start a new lifecycle.
func NewCreatedAccount(name domain.Name) CreatedAccount {
	return CreatedAccount{name: name}
}

func (a CreatedAccount) Name() domain.Name { return a.name }
func (CreatedAccount) Status() Status      { return StatusCreated }
func (CreatedAccount) account()            {}

// VerifiedAccount has passed verification. The address is an explicit option:
// None means the verifier supplied no address, not that it was never asked.
type VerifiedAccount struct {
	name    domain.Name
	address domain.Option[domain.Address]
}

func (a VerifiedAccount) Name() domain.Name                      { return a.name }
func (VerifiedAccount) Status() Status                           { return StatusVerified }
func (a VerifiedAccount) Address() domain.Option[domain.Address] { return a.address }
func (VerifiedAccount) account()                                 {}

// DeletedAccount is terminal.
type DeletedAccount struct {
	name domain.Name
}

func (a DeletedAccount) Name() domain.Name { return a.name }
func (DeletedAccount) Status() Status      { return StatusDeleted }
func (DeletedAccount) account()            {}
