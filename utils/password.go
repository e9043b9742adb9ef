package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/matthewhartstonge/argon2"
)

// HashSecret hashes short-lived secrets held at rest (sign-in OTP codes).
func HashSecret(secret string) (string, error) {
	argon := argon2.DefaultConfig()
	encoded, err := argon.HashEncoded([]byte(secret))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func VerifySecret(encodedHash, secret string) (bool, error) {
	ok, err := argon2.VerifyEncoded([]byte(secret), []byte(encodedHash))
	if err != nil {
		return false, err
	}
	return ok, nil
}

// GenerateSaltHex returns n random bytes hex-encoded, for the password gate.
func GenerateSaltHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GatePasswordHash computes the gate hash exactly as the client does:
// SHA-256 over the raw salt bytes followed by the password bytes, hex
// encoded. The algorithm is fixed by the wire contract; stored hashes were
// produced this way.
func GatePasswordHash(saltHex, password string) (string, error) {
	saltBytes, err := hex.DecodeString(saltHex)
	if err != nil {
		return "", errors.New("salt is not valid hex")
	}

	combined := make([]byte, 0, len(saltBytes)+len(password))
	combined = append(combined, saltBytes...)
	combined = append(combined, []byte(password)...)

	digest := sha256.Sum256(combined)
	return hex.EncodeToString(digest[:]), nil
}
