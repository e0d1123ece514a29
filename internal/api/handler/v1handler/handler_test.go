package v1handler_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"moderation/internal/api/handler/v1handler"
	"moderation/internal/auth"
	"moderation/internal/service"
	"moderation/pkg/domain"
	"moderation/pkg/logger"
	"moderation/pkg/policy"
	"moderation/pkg/storage/memory"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

type tickClock struct{ now atomic.Int64 }

func (c *tickClock) NowMillis() int64 { return c.now.Add(1000) }

type env struct {
	handler http.Handler
	mem     *memory.Memory
	minter  *auth.Minter
}

func newEnv(t *testing.T) *env {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	minter, err := auth.NewMinter(privPEM, time.Hour)
	require.NoError(t, err)

	mem := memory.New(&tickClock{})
	t.Cleanup(func() { _ = mem.Close() })
	opts := service.Options{ScanMaxAttempts: 3, ScanUniqueJobPeriod: time.Hour}

	h := v1handler.New(v1handler.Deps{
		Websites:       service.NewWebsites(mem, opts),
		Webpages:       service.NewWebpages(mem, opts),
		Tags:           service.NewTags(mem, opts),
		WebsiteTags:    service.NewWebsiteTags(mem, opts),
		WebsiteReports: service.NewWebsiteReports(mem, opts),
		WebpageReports: service.NewWebpageReports(mem, opts),
		UserReports:    service.NewUserReports(mem, opts),
		ReportMessages: service.NewReportMessages(mem, opts),
		Users:          service.NewUsers(mem, mem, opts),
		Statistics:     service.NewStatistics(mem, opts),
		Minter:         minter,
	})
	sec, err := v1handler.NewSecHandler(&v1handler.SecHandlerOptions{PublicKey: pubPEM})
	require.NoError(t, err)

	return &env{
		handler: sec.Wrap(http.StripPrefix("/v1", h)),
		mem:     mem,
		minter:  minter,
	}
}

// do issues a request against the in-memory server. A non-empty token is sent
// as a bearer credential; body is JSON-encoded when non-nil.
func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	return rec
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))

	return v
}

// seedUser stores an account directly and mints a token for it.
func (e *env) seedUser(t *testing.T, email string, roles ...domain.Role) (*domain.User, string) {
	t.Helper()

	user, err := e.mem.StoreUser(t.Context(), domain.User{
		Email:    email,
		Username: email,
		Roles:    roles,
	})
	require.NoError(t, err)
	token, err := e.minter.Mint(*user)
	require.NoError(t, err)

	return user, token
}

func TestWebsiteLifecycleOverHTTP(t *testing.T) {
	e := newEnv(t)
	owner, token := e.seedUser(t, "owner@example.org", domain.RoleContributor)

	rec := e.do(t, http.MethodPost, "/v1/websites", token, domain.Website{Domain: "Example.ORG"})
	require.Equal(t, http.StatusCreated, rec.Code)
	site := decodeBody[domain.Website](t, rec)
	require.Equal(t, "example.org", site.Domain)
	require.Equal(t, domain.StatusPendingInitial, site.Status)
	require.Equal(t, owner.ID, site.UserID)

	// public read
	rec = e.do(t, http.MethodGet, "/v1/websites/"+itoa(site.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// duplicate registration
	rec = e.do(t, http.MethodPost, "/v1/websites", token, domain.Website{Domain: "example.org"})
	require.Equal(t, http.StatusConflict, rec.Code)

	// rename with the current modified value succeeds
	site.Domain = "renamed.example.org"
	rec = e.do(t, http.MethodPut, "/v1/websites/"+itoa(site.ID), token, site)
	require.Equal(t, http.StatusOK, rec.Code)
	renamed := decodeBody[domain.Website](t, rec)
	require.Equal(t, "renamed.example.org", renamed.Domain)
	require.Greater(t, renamed.Modified, site.Modified)

	// replaying the stale payload is a conflict
	rec = e.do(t, http.MethodPut, "/v1/websites/"+itoa(site.ID), token, site)
	require.Equal(t, http.StatusConflict, rec.Code)
	errBody := decodeBody[map[string]string](t, rec)
	require.Equal(t, "CONFLICT", errBody["kind"])

	rec = e.do(t, http.MethodDelete, "/v1/websites/"+itoa(site.ID), token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = e.do(t, http.MethodGet, "/v1/websites/"+itoa(site.ID), "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthenticationStatuses(t *testing.T) {
	e := newEnv(t)
	_, viewerToken := e.seedUser(t, "viewer@example.org", domain.RoleViewer)

	// anonymous create is 401
	rec := e.do(t, http.MethodPost, "/v1/websites", "", domain.Website{Domain: "a.example"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// authenticated but not permitted is 403
	rec = e.do(t, http.MethodPost, "/v1/websites", viewerToken, domain.Website{Domain: "a.example"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	// garbage token is rejected outright
	rec = e.do(t, http.MethodGet, "/v1/websites", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// unsupported scheme is rejected
	req := httptest.NewRequest(http.MethodGet, "/v1/websites", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequestValidation(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/v1/websites/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodGet, "/v1/websites?page=x", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodGet, "/v1/websites?order=sideways", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	_, token := e.seedUser(t, "owner@example.org", domain.RoleContributor)
	req := httptest.NewRequest(http.MethodPost, "/v1/websites", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWebsiteListPagination(t *testing.T) {
	e := newEnv(t)
	owner, _ := e.seedUser(t, "owner@example.org", domain.RoleContributor)
	for _, d := range []string{"c.example", "a.example", "b.example"} {
		_, err := e.mem.StoreWebsite(t.Context(), domain.Website{
			UserID: owner.ID,
			Domain: d,
			Status: domain.StatusReady,
		})
		require.NoError(t, err)
	}

	rec := e.do(t, http.MethodGet, "/v1/websites?size=2&sort=domain", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeBody[policy.Envelope[domain.Website]](t, rec)
	require.Equal(t, 3, envelope.TotalElements)
	require.Equal(t, 2, envelope.TotalPages)
	require.Len(t, envelope.Content, 2)
	require.Equal(t, "a.example", envelope.Content[0].Domain)
	require.Equal(t, "b.example", envelope.Content[1].Domain)

	rec = e.do(t, http.MethodGet, "/v1/websites?size=2&sort=domain&page=1", "", nil)
	envelope = decodeBody[policy.Envelope[domain.Website]](t, rec)
	require.Len(t, envelope.Content, 1)
	require.Equal(t, "c.example", envelope.Content[0].Domain)
}

func TestUserRegistrationAndLogin(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/v1/users", "", map[string]any{
		"email":    "New@Example.org",
		"username": "newbie",
		"roles":    []string{"CONTRIBUTOR"},
		"secret":   "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[domain.User](t, rec)
	require.Equal(t, "new@example.org", created.Email)

	// wrong secret
	rec = e.do(t, http.MethodPost, "/v1/tokens", "", map[string]string{
		"email":  "new@example.org",
		"secret": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// login and use the token
	rec = e.do(t, http.MethodPost, "/v1/tokens", "", map[string]string{
		"email":  "new@example.org",
		"secret": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	tok := decodeBody[map[string]json.RawMessage](t, rec)
	var token string
	require.NoError(t, json.Unmarshal(tok["token"], &token))
	require.NotEmpty(t, token)

	rec = e.do(t, http.MethodGet, "/v1/users/"+itoa(created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// anonymous account reads stay closed
	rec = e.do(t, http.MethodGet, "/v1/users/"+itoa(created.ID), "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReportConversationRoutes(t *testing.T) {
	e := newEnv(t)
	owner, _ := e.seedUser(t, "owner@example.org", domain.RoleContributor)
	_, viewerToken := e.seedUser(t, "viewer@example.org", domain.RoleViewer)

	site, err := e.mem.StoreWebsite(t.Context(), domain.Website{
		UserID: owner.ID,
		Domain: "example.org",
		Status: domain.StatusReady,
	})
	require.NoError(t, err)
	report, err := e.mem.StoreWebsiteReport(t.Context(), domain.WebsiteReport{
		Report:    domain.Report{UserID: owner.ID, Reason: domain.ReasonLowContrast, State: domain.StateOpen},
		WebsiteID: site.ID,
	})
	require.NoError(t, err)
	for _, text := range []string{"first", "second"} {
		_, err := e.mem.StoreReportMessage(t.Context(), domain.ReportMessage{
			ReportKind: domain.ReportKindWebsite,
			ReportID:   report.ID,
			UserID:     owner.ID,
			Message:    text,
		})
		require.NoError(t, err)
	}

	rec := e.do(t, http.MethodGet, "/v1/website-reports/"+itoa(report.ID)+"/messages", viewerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	messages := decodeBody[[]domain.ReportMessage](t, rec)
	require.Len(t, messages, 2)
	require.Equal(t, "first", messages[0].Message)
	require.Equal(t, "second", messages[1].Message)

	// the same id does not exist in the webpage report family
	rec = e.do(t, http.MethodGet, "/v1/webpage-reports/"+itoa(report.ID)+"/messages", viewerToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// conversations require authentication
	rec = e.do(t, http.MethodGet, "/v1/website-reports/"+itoa(report.ID)+"/messages", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatisticsIsPublic(t *testing.T) {
	e := newEnv(t)
	owner, _ := e.seedUser(t, "owner@example.org", domain.RoleContributor)
	_, err := e.mem.StoreWebsite(t.Context(), domain.Website{
		UserID: owner.ID,
		Domain: "example.org",
		Status: domain.StatusReady,
	})
	require.NoError(t, err)

	rec := e.do(t, http.MethodGet, "/v1/statistics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[domain.Statistic](t, rec)
	require.Equal(t, int64(1), stats.WebsiteCount)
	require.Equal(t, int64(1), stats.UserCount)
}
