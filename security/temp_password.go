package security

import "crypto/rand"

const tempPasswordLength = 16

const tempPasswordCharset = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!@#$%^&*-_=+"

// TempPassword generates a one-time password handed to a member by their
// chapter admin after a reset. Drawn from crypto/rand, never reused
func TempPassword() (string, error) {
	buf := make([]byte, tempPasswordLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	for i, b := range buf {
		buf[i] = tempPasswordCharset[int(b)%len(tempPasswordCharset)]
	}

	return string(buf), nil
}
