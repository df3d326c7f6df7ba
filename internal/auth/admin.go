// Package auth issues and verifies administrator bearer tokens and hashes
// passwords. A verified token yields an Admin, the capability every
// administrator-only service operation requires.
package auth

// Admin proves that the holder presented a valid administrator token. Its
// fields are unexported so only this package can mint one; the zero value is
// not a valid capability.
type Admin struct {
	id    string
	email string
}

func (a Admin) ID() string    { return a.id }
func (a Admin) Email() string { return a.email }

// Valid reports whether a was minted by Verify.
func (a Admin) Valid() bool { return a.id != "" }
