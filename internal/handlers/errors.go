package handlers

import (
	"errors"
	"net/http"

	"github.com/bidpoint/backend/internal/models"
	"github.com/bidpoint/backend/pkg/auth"
	pkghttp "github.com/bidpoint/backend/pkg/http"
)

// writeServiceError maps service sentinels onto HTTP responses. Anything
// unrecognised becomes a 500 without detail.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrRoleAlreadyExists):
		pkghttp.WriteAlreadyReported(w, "Role already exists")
	case errors.Is(err, models.ErrRoleNotFound):
		pkghttp.WriteBadRequest(w, "Role not found")
	case errors.Is(err, models.ErrInvalidSortField):
		pkghttp.WriteInvalidSort(w, err.Error())
	case errors.Is(err, auth.ErrWeakPassword):
		pkghttp.WriteBadRequest(w, "Password must be 8-72 characters and contain a letter and a digit")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteInvalidRequest(w, "Invalid request", err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "Invalid credentials")
	case errors.Is(err, models.ErrUserNotApproved):
		pkghttp.WriteForbidden(w, "User is not approved")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Forbidden")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, "Resource already exists")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
