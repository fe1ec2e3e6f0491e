package utils

import "github.com/google/uuid"

// NewTokenID returns a time-ordered UUID for the jti claim, falling back to
// a random one when the clock sequence cannot be read.
func NewTokenID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
