package service

import (
	"database/sql"
	"errors"
	"fmt"

	"carrental-backend/internal/pricing"
)

// translate maps storage and engine errors onto service sentinels
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, pricing.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}
