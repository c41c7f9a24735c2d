package output

import (
	"context"

	"formwalker/internal/domain/entity"
)

// FillerPort owns the actual input simulation. The traversal controller hands
// it one resolved field at a time and records any failure it returns.
type FillerPort interface {
	Fill(ctx context.Context, field entity.MappedField) error
}
