package failure

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"

	"formwalker/internal/domain/entity"
)

// Sentinel errors collaborators can wrap to force a category.
var (
	ErrMissingConfiguration = errors.New("missing configuration")
	ErrAlreadyExists        = errors.New("already exists")
	ErrElementNotFound      = errors.New("element not found")
	ErrValidation           = errors.New("validation failed")
)

// Classify buckets an error into a failure category. Checks run in priority
// order; configuration problems are recognized before anything else because
// they are never worth a retry.
func Classify(err error) entity.FailureCategory {
	if err == nil {
		return ""
	}

	msg := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, ErrMissingConfiguration) || strings.Contains(msg, "missing configuration") || strings.Contains(msg, "env ") && strings.Contains(msg, "missing"):
		return entity.FailureMissingConfiguration

	case errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) || isNetErr(err) ||
		strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") ||
		strings.Contains(msg, "connection") || strings.Contains(msg, "network"):
		return entity.FailureNetworkOrTimeout

	case errors.Is(err, ErrElementNotFound) ||
		strings.Contains(msg, "not found") || strings.Contains(msg, "no such element") ||
		strings.Contains(msg, "cannot find"):
		return entity.FailureElementNotFound

	case errors.Is(err, ErrValidation) ||
		strings.Contains(msg, "validation") || strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "format"):
		return entity.FailureValidationOrFormat

	case errors.Is(err, ErrAlreadyExists) || strings.Contains(msg, "already exists"):
		return entity.FailureAlreadyExists
	}

	return entity.FailureUnknown
}

func isNetErr(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}
