package repository

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"storefront/internal/analytics"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// storeError traduce los errores del driver: timeouts y fallos de red pasan a
// ErrStoreUnavailable, claves duplicadas a ErrDuplicate.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	var selectionErr topology.ServerSelectionError
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) || errors.As(err, &selectionErr) {
		return fmt.Errorf("%s: %w: %v", op, analytics.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func invalidID(field string) error {
	return fmt.Errorf("%w: invalid %s", analytics.ErrInvalidInput, field)
}
