package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher hashes passwords with bcrypt after prefixing the
// deployment-wide salt.
type PasswordHasher struct {
	salt string
	cost int
}

func NewPasswordHasher(salt string) *PasswordHasher {
	return &PasswordHasher{salt: salt, cost: bcrypt.DefaultCost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(h.salt+password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether password matches hash. Malformed hashes never
// match.
func (h *PasswordHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(h.salt+password)) == nil
}
