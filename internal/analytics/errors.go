package analytics

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrStoreUnavailable indica que el almacén no responde o excedió el timeout
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInvalidInput indica un identificador o parámetro mal formado
	ErrInvalidInput = errors.New("invalid input")
)

// ParseUserID interpreta el id de usuario del historial. Un id mal formado no
// identifica a ningún usuario: ok es false y el historial queda vacío.
func ParseUserID(raw string) (id primitive.ObjectID, ok bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	return id, err == nil
}

// ValidateLimit rechaza límites negativos; 0 significa sin límite
func ValidateLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("%w: limit must be >= 0, got %d", ErrInvalidInput, limit)
	}
	return nil
}
