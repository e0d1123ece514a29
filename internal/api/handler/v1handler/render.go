package v1handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"moderation/internal/auth"
	"moderation/pkg/logger"
	"moderation/pkg/policy"
	"moderation/pkg/serrors"

	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; none of the resources carry payloads
// anywhere near this size.
const maxBodyBytes = 1 << 20

// errorResponse is the JSON error body of every non-2xx response.
type errorResponse struct {
	// Kind is the stable machine-readable failure kind, e.g. "NOT_FOUND".
	Kind string `json:"kind"`
	// Error is a human-readable explanation.
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error to an HTTP status. Authorization failures
// distinguish between anonymous (401) and authenticated (403) callers.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, serrors.ErrNoAuthorization):
		status = http.StatusForbidden
		if auth.FromContext(ctx) == nil {
			status = http.StatusUnauthorized
		}
	case errors.Is(err, serrors.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, serrors.ErrIllegalArgument),
		errors.Is(err, serrors.ErrIllegalTransition),
		errors.Is(err, serrors.ErrNoRole),
		errors.Is(err, serrors.ErrInvalidDomain),
		errors.Is(err, serrors.ErrInvalidURL),
		errors.Is(err, serrors.ErrInvalidPath),
		errors.Is(err, serrors.ErrInvalidEmail):
		status = http.StatusBadRequest
	case errors.Is(err, serrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, serrors.ErrAlreadyExists), errors.Is(err, serrors.ErrConflict):
		status = http.StatusConflict
	}

	body := errorResponse{Kind: kindName(err), Error: err.Error()}
	if status == http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
		// Internal details stay out of the response.
		body = errorResponse{Kind: serrors.ErrInternal.Error(), Error: "internal error"}
	}

	writeJSON(w, status, body)
}

// kindName extracts the semantic kind of a service error, defaulting to
// INTERNAL for untagged errors.
func kindName(err error) string {
	var sErr *serrors.Error
	if errors.As(err, &sErr) && sErr.Kind() != nil {
		return sErr.Kind().Error()
	}

	return serrors.ErrInternal.Error()
}

// decodeJSON decodes the request body into v, treating malformed input as an
// illegal argument.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return serrors.Wrap(serrors.ErrIllegalArgument, err, "could not decode request body")
	}

	return nil
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, serrors.Wrap(serrors.ErrIllegalArgument, err, "invalid id")
	}

	return id, nil
}

// queryParameters parses the pagination query of list endpoints. Absent
// values fall back to the pager defaults; malformed values are rejected.
func queryParameters(r *http.Request) (policy.QueryParameters, error) {
	var params policy.QueryParameters
	q := r.URL.Query()

	intParam := func(name string) (int64, error) {
		raw := q.Get(name)
		if raw == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, serrors.Wrap(serrors.ErrIllegalArgument, err, "invalid %s", name)
		}

		return n, nil
	}

	page, err := intParam("page")
	if err != nil {
		return params, err
	}
	size, err := intParam("size")
	if err != nil {
		return params, err
	}
	modifiedAfter, err := intParam("modifiedAfter")
	if err != nil {
		return params, err
	}

	params.Page = int(page)
	params.Size = int(size)
	params.ModifiedAfter = modifiedAfter
	params.Sort = q.Get("sort")
	switch q.Get("order") {
	case "", "asc", "ASC":
		params.Order = policy.OrderAsc
	case "desc", "DESC":
		params.Order = policy.OrderDesc
	default:
		return params, serrors.With(serrors.ErrIllegalArgument, "invalid order %q", q.Get("order"))
	}

	return params, nil
}
