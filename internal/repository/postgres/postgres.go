// Package postgres implements the repositories on PostgreSQL. The schema
// lives in the top-level migrations package.
package postgres

import (
	"fmt"

	"github.com/utafrali/swagshop/pkg/database"
	apperrors "github.com/utafrali/swagshop/pkg/errors"
)

// storeError wraps err with what, tagging connectivity failures as
// unavailable.
func storeError(what string, err error) error {
	if database.IsConnectionError(err) {
		return fmt.Errorf("%s: %w", what, apperrors.Unavailable("postgres", err))
	}
	return fmt.Errorf("%s: %w", what, err)
}
