package v1handler

import (
	"context"
	"net/http"

	"moderation/internal/auth"
	"moderation/pkg/domain"
	"moderation/pkg/policy"
)

// crud bundles the service operations behind one REST resource. Nil fields
// leave the corresponding route unregistered.
type crud[T policy.Pageable] struct {
	add    func(ctx context.Context, p *domain.Principal, candidate T) (*T, error)
	update func(ctx context.Context, p *domain.Principal, candidate T) (*T, error)
	get    func(ctx context.Context, p *domain.Principal, id int64) (*T, error)
	list   func(ctx context.Context, p *domain.Principal, params policy.QueryParameters) (policy.Envelope[T], error)
	remove func(ctx context.Context, p *domain.Principal, id int64) error
}

// idSetter is satisfied by every domain entity through the embedded Meta.
type idSetter interface {
	SetEntityID(id int64)
}

// registerCRUD mounts the standard routes of one resource on the mux. The
// path id always wins over an id carried in a request body.
func registerCRUD[T policy.Pageable](mux *http.ServeMux, path string, c crud[T]) {
	if c.add != nil {
		mux.HandleFunc("POST "+path, func(w http.ResponseWriter, r *http.Request) {
			var candidate T
			if err := decodeJSON(r, &candidate); err != nil {
				writeError(r.Context(), w, err)

				return
			}

			created, err := c.add(r.Context(), auth.FromContext(r.Context()), candidate)
			if err != nil {
				writeError(r.Context(), w, err)

				return
			}
			writeJSON(w, http.StatusCreated, created)
		})
	}

	if c.list != nil {
		mux.HandleFunc("GET "+path, func(w http.ResponseWriter, r *http.Request) {
			params, err := queryParameters(r)
			if err != nil {
				writeError(r.Context(), w, err)

				return
			}

			envelope, err := c.list(r.Context(), auth.FromContext(r.Context()), params)
			if err != nil {
				writeError(r.Context(), w, err)

				return
			}
			writeJSON(w, http.StatusOK, envelope)
		})
	}

	if c.get != nil {
		mux.HandleFunc("GET "+path+"/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r)
			if err != nil {
				writeError(r.Context(), w, err)

				return
			}

			entity, err := c.get(r.Context(), auth.FromContext(r.Context()), id)
			if err != nil {
				writeError(r.Context(), w, err)

				return
			}
			writeJSON(w, http.StatusOK, entity)
		})
	}

	if c.update != nil {
		mux.HandleFunc("PUT "+path+"/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r)
			if err != nil {
				writeError(r.Context(), w, err)

				return
			}
			var candidate T
			if err := decodeJSON(r, &candidate); err != nil {
				writeError(r.Context(), w, err)

				return
			}
			any(&candidate).(idSetter).SetEntityID(id)

			updated, err := c.update(r.Context(), auth.FromContext(r.Context()), candidate)
			if err != nil {
				writeError(r.Context(), w, err)

				return
			}
			writeJSON(w, http.StatusOK, updated)
		})
	}

	if c.remove != nil {
		mux.HandleFunc("DELETE "+path+"/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r)
			if err != nil {
				writeError(r.Context(), w, err)

				return
			}

			if err := c.remove(r.Context(), auth.FromContext(r.Context()), id); err != nil {
				writeError(r.Context(), w, err)

				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
