/*
Package randx provides random identifiers and uniform random choice.

User ids are UUID v4 strings. Choices use crypto/rand so every element of a list is
equally likely regardless of its length.
*/
package randx

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// ErrEmptyChoice is returned by Pick when there is nothing to choose from.
var ErrEmptyChoice = errors.New("randx: empty choice list")

// UserID generates the identifier assigned to a newly created user record.
func UserID() string {
	return uuid.NewString()
}

// IsValidUserID reports whether id looks like an identifier produced by UserID.
func IsValidUserID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Pick returns a uniformly random element of items.
func Pick[T any](items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmptyChoice
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(items))))
	if err != nil {
		return zero, fmt.Errorf("failed to generate random index: %w", err)
	}

	return items[num.Int64()], nil
}
