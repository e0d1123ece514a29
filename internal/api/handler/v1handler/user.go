package v1handler

import (
	"net/http"

	"moderation/internal/auth"
	"moderation/pkg/domain"
	"moderation/pkg/serrors"
)

// createUserRequest carries the account record plus the login secret, which
// never appears on the user resource itself.
type createUserRequest struct {
	domain.User

	Secret string `json:"secret"`
}

// createUser registers an account. Anyone may self-register; privileged roles
// require an admin caller, which the service enforces.
func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, err)

		return
	}

	created, err := h.deps.Users.Add(r.Context(), auth.FromContext(r.Context()), req.User, req.Secret)
	if err != nil {
		writeError(r.Context(), w, err)

		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// tokenRequest is the login payload.
type tokenRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

// tokenResponse carries the bearer token of a successful login.
type tokenResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// createToken authenticates by email and secret and issues a bearer token.
func (h *Handler) createToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, err)

		return
	}

	user, err := h.deps.Users.Authenticate(r.Context(), req.Email, req.Secret)
	if err != nil {
		writeError(r.Context(), w, err)

		return
	}

	if h.deps.Minter == nil {
		writeError(r.Context(), w, serrors.With(serrors.ErrInternal, "token minting is not configured"))

		return
	}
	token, err := h.deps.Minter.Mint(*user)
	if err != nil {
		writeError(r.Context(), w, err)

		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}
