package httpx

import (
	"net/http"

	"github.com/kasira/kasira/internal/shared/apperr"
)

// Error maps a classified domain error to a failure envelope.
func Error(w http.ResponseWriter, err error) {
	Fail(w, statusOf(err), apperr.MessageOf(err))
}

func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
