package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clinivet/clinivet/internal/shared"
)

// Error codes surfaced to clients. Backend error text is never passed
// through verbatim.
const (
	CodeValidation     = "validation_error"
	CodeAuthentication = "authentication_failed"
	CodePermission     = "permission_denied"
	CodeNotFound       = "not_found"
	CodeInternal       = "internal_error"
)

// ErrorBody is the structured error envelope for all 4xx/5xx responses.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// Fail sends a structured error response.
func Fail(w http.ResponseWriter, status int, body ErrorBody) {
	JSON(w, status, errorEnvelope{Error: body})
}

// RespondError maps domain errors onto the four-code taxonomy. Anything not
// in the taxonomy becomes an opaque 500.
func RespondError(w http.ResponseWriter, err error) {
	if v := uniqueViolation(err); v != nil {
		err = v
	}
	var vErr *shared.ValidationError
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &vErr):
		Fail(w, http.StatusBadRequest, ErrorBody{Code: CodeValidation, Message: vErr.Error(), Fields: vErr.Fields})
	case errors.As(err, &fieldErrs):
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = "failed " + fe.Tag() + " validation"
		}
		Fail(w, http.StatusBadRequest, ErrorBody{Code: CodeValidation, Message: "invalid request body", Fields: fields})
	case errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, shared.ErrAuthenticationFailed):
		Fail(w, http.StatusUnauthorized, ErrorBody{Code: CodeAuthentication, Message: authMessage(err)})
	case errors.Is(err, shared.ErrPermissionDenied):
		Fail(w, http.StatusForbidden, ErrorBody{Code: CodePermission, Message: err.Error()})
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, ErrorBody{Code: CodeNotFound, Message: err.Error()})
	default:
		Fail(w, http.StatusInternalServerError, ErrorBody{Code: CodeInternal, Message: "internal error"})
	}
}

// uniqueViolation translates a 23505 into the same validation failure the
// service-level pre-checks produce, so a concurrent duplicate that slips past
// the pre-check and hits the constraint reads identically to the client.
func uniqueViolation(err error) *shared.ValidationError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "email") {
		return shared.NewValidationError("email", "Email already taken")
	}
	return &shared.ValidationError{Message: "duplicate value"}
}

func authMessage(err error) string {
	if errors.Is(err, shared.ErrInvalidCredentials) {
		return "Wrong credentials"
	}
	return "authentication failed"
}
