package models

import "accountd/pkg/domain"

// Verify moves a created account to Verified. address may be None.
// created is passed by value and is left untouched.
func Verify(created CreatedAccount, address domain.Option[domain.Address]) VerifiedAccount {
	return VerifiedAccount{name: created.name, address: address}
}

// Delete moves a verified account to the terminal Deleted state, dropping the
// address.
func Delete(verified VerifiedAccount) DeletedAccount {
	return DeletedAccount{name: verified.name}
}
