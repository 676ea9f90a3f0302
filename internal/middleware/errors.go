package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"workforce-api/internal/model"
	"workforce-api/pkg/apierror"
)

// writeError renders a stage failure. Anything that is not an
// *apierror.APIError is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		slog.Error("request pipeline failed", "method", r.Method, "path", r.URL.Path, "error", err)
		apiErr = apierror.New(apierror.CodeInternal, "Unexpected server error", "", http.StatusInternalServerError)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.HTTPStatus)
	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
	})
}
