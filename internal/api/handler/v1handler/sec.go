package v1handler

import (
	"net/http"
	"strings"

	"moderation/internal/auth"
	"moderation/internal/config"
	"moderation/pkg/controller"
	"moderation/pkg/serrors"
)

// SecHandlerOptions configures bearer token verification.
type SecHandlerOptions struct {
	// PublicKey is the PEM-encoded RSA public key tokens are verified with.
	PublicKey []byte
}

// NewSecHandlerOptions maps the JWT section of the application configuration.
func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	return &SecHandlerOptions{PublicKey: []byte(cfg.JWT.PublicKey)}
}

// SecHandler resolves bearer tokens into principals. Requests without an
// Authorization header pass through anonymously; the services decide what
// anonymous callers may do.
type SecHandler struct {
	verifier *auth.Verifier
}

// NewSecHandler constructs a SecHandler from the options.
func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	verifier, err := auth.NewVerifier(opts.PublicKey)
	if err != nil {
		return nil, err
	}

	return &SecHandler{verifier: verifier}, nil
}

// Wrap returns a middleware that authenticates requests carrying a bearer
// token. A malformed or invalid token is rejected outright; a missing one
// leaves the request anonymous.
func (s *SecHandler) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)

			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(r.Context(), w, serrors.With(serrors.ErrNoAuthorization, "unsupported authorization scheme"))

			return
		}

		p, err := s.verifier.Verify(token)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		controller.RecordPrincipal(r.Context(), p)
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	})
}
