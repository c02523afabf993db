package userservice

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var bcryptCost = 12

// set replaces the stored hash with one derived from plaintext.
func (p *Password) set(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}

	p.hash = hash
	return nil
}

// matches reports whether plaintext is the password behind the stored hash.
// A mismatch is not an error.
func (p *Password) matches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plaintext))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}
