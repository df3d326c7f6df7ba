package auth

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when a login names an unknown email so both
// failure paths spend the same bcrypt time.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOa0ZlbPP3.k1HnDbOg2Jk5pHAvMx6Yzu")

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BurnPassword performs a comparison that always fails, at the same cost as
// a real one.
func BurnPassword(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
