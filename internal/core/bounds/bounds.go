// Package bounds enforces string field caps at the operation boundary.
//
// Caps exist so oversized input fails loudly instead of being truncated by
// the storage substrate.
package bounds

import (
	"strconv"

	apperrors "github.com/medinex-ai/registry/internal/errors"
)

// Field caps shared by every record family.
const (
	MaxName        = 64
	MaxDescription = 256
	MaxVersion     = 32
	MaxTypeTag     = 32
	MaxSymbol      = 8
	MaxHash        = 64
	MaxMethod      = 64
	MaxURI         = 128
	MaxBlob        = 512
	MaxNotes       = 256
)

// Check fails with FIELD_TOO_LONG when value exceeds max characters.
func Check(field, value string, max int) error {
	if len(value) <= max {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeFieldTooLong, field+" exceeds maximum length", map[string]string{
		"Field": field,
		"Max":   strconv.Itoa(max),
	})
}
