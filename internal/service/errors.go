package service

import (
	"errors"

	"github.com/sakif/snippethub/internal/apperror"
)

// apperrorIs reports whether err is already a classified domain error.
// Classified errors pass through untouched and unlogged; anything else
// is an infrastructure failure worth an error log and a wrap.
func apperrorIs(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr)
}
