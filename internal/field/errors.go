package field

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func mismatch(got, want int) error {
	return fmt.Errorf("field: got %d values, want %d: %w", got, want, dynamo.ErrDimensionMismatch)
}
