// Package v1handler implements the v1 REST endpoints on top of the service
// layer. Every handler resolves the caller's principal from the request
// context and delegates authorization entirely to the services.
package v1handler

import (
	"net/http"

	"moderation/internal/auth"
	"moderation/internal/service"
	"moderation/pkg/domain"
)

// Deps bundles the service collaborators the handlers delegate to.
type Deps struct {
	Websites       service.Websites
	Webpages       service.Webpages
	Tags           service.Tags
	WebsiteTags    service.WebsiteTags
	WebsiteReports service.WebsiteReports
	WebpageReports service.WebpageReports
	UserReports    service.UserReports
	ReportMessages service.ReportMessages
	Users          service.Users
	Statistics     service.Statistics

	// Minter issues bearer tokens on login. Optional; when nil the token
	// endpoint reports an internal error.
	Minter *auth.Minter
}

// Handler serves the v1 routes. It expects to be mounted under the /v1 prefix
// with that prefix stripped.
type Handler struct {
	deps Deps
	mux  *http.ServeMux
}

// New constructs the handler and registers all v1 routes.
func New(deps Deps) *Handler {
	h := &Handler{deps: deps, mux: http.NewServeMux()}
	h.routes()

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	registerCRUD(h.mux, "/websites", crud[domain.Website]{
		add:    h.deps.Websites.Add,
		update: h.deps.Websites.Update,
		get:    h.deps.Websites.Get,
		list:   h.deps.Websites.GetAll,
		remove: h.deps.Websites.Delete,
	})
	registerCRUD(h.mux, "/webpages", crud[domain.Webpage]{
		add:    h.deps.Webpages.Add,
		update: h.deps.Webpages.Update,
		get:    h.deps.Webpages.Get,
		list:   h.deps.Webpages.GetAll,
		remove: h.deps.Webpages.Delete,
	})
	registerCRUD(h.mux, "/tags", crud[domain.Tag]{
		add:    h.deps.Tags.Add,
		update: h.deps.Tags.Update,
		get:    h.deps.Tags.Get,
		list:   h.deps.Tags.GetAll,
		remove: h.deps.Tags.Delete,
	})
	registerCRUD(h.mux, "/website-tags", crud[domain.WebsiteTag]{
		add:    h.deps.WebsiteTags.Add,
		update: h.deps.WebsiteTags.Update,
		get:    h.deps.WebsiteTags.Get,
		list:   h.deps.WebsiteTags.GetAll,
		remove: h.deps.WebsiteTags.Delete,
	})
	registerCRUD(h.mux, "/website-reports", crud[domain.WebsiteReport]{
		add:    h.deps.WebsiteReports.Add,
		update: h.deps.WebsiteReports.Update,
		get:    h.deps.WebsiteReports.Get,
		list:   h.deps.WebsiteReports.GetAll,
		remove: h.deps.WebsiteReports.Delete,
	})
	registerCRUD(h.mux, "/webpage-reports", crud[domain.WebpageReport]{
		add:    h.deps.WebpageReports.Add,
		update: h.deps.WebpageReports.Update,
		get:    h.deps.WebpageReports.Get,
		list:   h.deps.WebpageReports.GetAll,
		remove: h.deps.WebpageReports.Delete,
	})
	registerCRUD(h.mux, "/user-reports", crud[domain.UserReport]{
		add:    h.deps.UserReports.Add,
		update: h.deps.UserReports.Update,
		get:    h.deps.UserReports.Get,
		list:   h.deps.UserReports.GetAll,
		remove: h.deps.UserReports.Delete,
	})
	registerCRUD(h.mux, "/report-messages", crud[domain.ReportMessage]{
		add:    h.deps.ReportMessages.Add,
		update: h.deps.ReportMessages.Update,
		get:    h.deps.ReportMessages.Get,
		list:   h.deps.ReportMessages.GetAll,
		remove: h.deps.ReportMessages.Delete,
	})
	h.mux.HandleFunc("GET /website-reports/{id}/messages", h.reportConversation(domain.ReportKindWebsite))
	h.mux.HandleFunc("GET /webpage-reports/{id}/messages", h.reportConversation(domain.ReportKindWebpage))
	h.mux.HandleFunc("GET /user-reports/{id}/messages", h.reportConversation(domain.ReportKindUser))

	// User creation carries the secret alongside the record, so it does not
	// fit the generic CRUD shape.
	registerCRUD(h.mux, "/users", crud[domain.User]{
		update: h.deps.Users.Update,
		get:    h.deps.Users.Get,
		list:   h.deps.Users.GetAll,
		remove: h.deps.Users.Delete,
	})
	h.mux.HandleFunc("POST /users", h.createUser)
	h.mux.HandleFunc("POST /tokens", h.createToken)

	h.mux.HandleFunc("GET /statistics", h.getStatistics)
}
