package auth

import "golang.org/x/crypto/bcrypt"

// HashPassphrase hashes a plaintext passphrase with configured cost.
func HashPassphrase(passphrase string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(passphrase), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassphrase verifies a passphrase against its hashed value.
func ComparePassphrase(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
