package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artsfest/admin-panel/internal/backend"
	"github.com/artsfest/admin-panel/internal/repository"
	"github.com/artsfest/admin-panel/internal/service"
	"github.com/artsfest/admin-panel/internal/web"
	"github.com/artsfest/admin-panel/pkg/config"
	"github.com/artsfest/admin-panel/pkg/export"
)

const testCookieName = "artsfest_session"

// fakeFestival is a minimal stand-in for the festival REST backend.
type fakeFestival struct {
	server           *httptest.Server
	submitted        map[string]json.RawMessage
	approved         []string
	deletedPending   []string
	programmeResults string
}

func newFakeFestival(t *testing.T) *fakeFestival {
	t.Helper()
	f := &fakeFestival{submitted: map[string]json.RawMessage{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid user name or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"backend-token","userName":"Festival Admin"}`))
	})
	mux.HandleFunc("/teams", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"_id":"t1","name":"Red","totalPoints":40},{"_id":"t2","name":"Blue","totalPoints":90}]`))
	}))
	mux.HandleFunc("/candidates", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"_id":"c1","admissionNo":"101","name":"Amina","team":"t1","category":"BIDAYA","totalPoints":10},
			{"_id":"c2","admissionNo":"102","name":"Bilal","team":"t2","category":"BIDAYA","totalPoints":0},
			{"_id":"c3","admissionNo":"103","name":"Zahra","team":"t1","category":"ULA","totalPoints":5}
		]`))
	}))
	mux.HandleFunc("/programmes", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"_id":"p1","name":"Qiraat","type":"Stage","category":"BIDAYA","isResultPublished":false},
			{"_id":"p2","name":"Essay","type":"Non-Stage","category":"ULA","isResultPublished":false}
		]`))
	}))
	mux.HandleFunc("/results", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"_id":"r1","programme":"p1","candidate":"c1","rank":1,"grade":"A","status":"pending"}]`))
	}))
	mux.HandleFunc("/programmes/p1/results", authed(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(f.programmeResults))
		case http.MethodPost:
			raw, _ := io.ReadAll(r.Body)
			f.submitted["p1"] = raw
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			f.deletedPending = append(f.deletedPending, "p1")
			w.WriteHeader(http.StatusOK)
		}
	}))
	mux.HandleFunc("/programmes/p1/approve", authed(func(w http.ResponseWriter, r *http.Request) {
		f.approved = append(f.approved, "p1")
		w.WriteHeader(http.StatusOK)
	}))

	f.programmeResults = "[]"
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer backend-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid token"}`))
			return
		}
		next(w, r)
	}
}

func buildPanelRouter(t *testing.T, festival *fakeFestival) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logr := zap.NewNop()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	client := backend.New(config.BackendConfig{BaseURL: festival.server.URL, Timeout: 5 * time.Second}, logr)
	store := repository.NewMemorySessionRepository()
	sessionCfg := config.SessionConfig{CookieName: testCookieName, TTL: time.Hour}

	sessionSvc := service.NewSessionService(client, store, nil, logr, sessionCfg.TTL)
	auditSvc := service.NewAuditService(nil, logr)

	handlers := Handlers{
		Auth:       NewAuthHandler(sessionSvc, auditSvc, renderer, sessionCfg),
		Dashboard:  NewDashboardHandler(renderer, true),
		Roster:     NewRosterHandler(service.NewRosterService(client, nil, logr), auditSvc, renderer),
		Programmes: NewProgrammeHandler(service.NewProgrammeService(client, nil, logr), auditSvc, renderer, true),
		Entries:    NewEntryHandler(service.NewEntryService(client, store, time.Hour, logr), auditSvc, renderer),
		Reviews:    NewReviewHandler(service.NewReviewService(client, logr), auditSvc, renderer),
		Exports:    NewExportHandler(service.NewExportService(client, logr), export.NewCSVExporter(), export.NewPDFExporter()),
	}

	router := gin.New()
	RegisterRoutes(router, handlers, sessionSvc, testCookieName)
	return router
}

func login(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	form := url.Values{"userName": {"admin"}, "password": {"secret"}}
	req, _ := http.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusSeeOther, resp.Code)

	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == testCookieName {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func doForm(router *gin.Engine, cookie *http.Cookie, path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func doGet(router *gin.Engine, cookie *http.Cookie, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestUnauthenticatedPagesRedirectToLogin(t *testing.T) {
	router := buildPanelRouter(t, newFakeFestival(t))

	for _, path := range []string{"/", "/candidates", "/programmes", "/results", "/pending"} {
		resp := doGet(router, nil, path)
		require.Equal(t, http.StatusSeeOther, resp.Code, path)
		require.Equal(t, "/login", resp.Header().Get("Location"), path)
	}
}

func TestLoginFailureRendersFormWithError(t *testing.T) {
	router := buildPanelRouter(t, newFakeFestival(t))

	resp := doForm(router, nil, "/login", url.Values{"userName": {"admin"}, "password": {"wrong"}})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Contains(t, resp.Body.String(), "invalid user name or password")
}

func TestDashboardAfterLogin(t *testing.T) {
	router := buildPanelRouter(t, newFakeFestival(t))
	cookie := login(t, router)

	resp := doGet(router, cookie, "/")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Welcome, Festival Admin")
}

func TestCandidatesDrillDown(t *testing.T) {
	router := buildPanelRouter(t, newFakeFestival(t))
	cookie := login(t, router)

	resp := doGet(router, cookie, "/candidates")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Red")
	require.Contains(t, resp.Body.String(), "Blue")

	resp = doGet(router, cookie, "/candidates?team=t1&category=BIDAYA")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Amina")
	require.NotContains(t, resp.Body.String(), "Bilal")
	require.NotContains(t, resp.Body.String(), "Zahra")

	// Empty selection renders the single placeholder row.
	resp = doGet(router, cookie, "/candidates?team=t2&category=ALIYA")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "No data available")
}

func TestResultsWizardEndToEnd(t *testing.T) {
	festival := newFakeFestival(t)
	festival.programmeResults = `[
		{"_id":"r1","programme":"p1","candidate":"c1","rank":2,"grade":"B","status":"pending"},
		{"_id":"r2","programme":"p1","candidate":"c2","rank":1,"grade":"A","status":"published"}
	]`
	router := buildPanelRouter(t, festival)
	cookie := login(t, router)

	// Step 1: category list.
	resp := doGet(router, cookie, "/results")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Select a Category")

	resp = doForm(router, cookie, "/results/category", url.Values{"category": {"BIDAYA"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)

	// Step 2: only BIDAYA programmes are offered.
	resp = doGet(router, cookie, "/results")
	require.Contains(t, resp.Body.String(), "Qiraat")
	require.NotContains(t, resp.Body.String(), "Essay")

	resp = doForm(router, cookie, "/results/programme", url.Values{"programme": {"p1"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)

	resp = doForm(router, cookie, "/results/team", url.Values{"team": {"t1"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)

	// Step 4: the pending result is pre-selected, the published one is not.
	resp = doGet(router, cookie, "/results")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	require.Contains(t, body, "Amina")
	require.Contains(t, body, `value="2" selected`)

	resp = doForm(router, cookie, "/results/save", url.Values{
		"candidateId": {"c1"},
		"rank-c1":     {"1"},
		"grade-c1":    {"A"},
	})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	require.Contains(t, resp.Header().Get("Location"), "notice=")

	raw, ok := festival.submitted["p1"]
	require.True(t, ok)
	require.JSONEq(t, `{"results":[{"candidateId":"c1","rank":1,"grade":"A"}]}`, string(raw))

	// After a successful submit the wizard is back at step one.
	resp = doGet(router, cookie, "/results")
	require.Contains(t, resp.Body.String(), "Select a Category")
}

func TestPendingApproveAndDeny(t *testing.T) {
	festival := newFakeFestival(t)
	router := buildPanelRouter(t, festival)
	cookie := login(t, router)

	resp := doGet(router, cookie, "/pending")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Qiraat")
	require.NotContains(t, resp.Body.String(), "Essay")

	resp = doForm(router, cookie, "/pending/p1/approve", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	require.Equal(t, []string{"p1"}, festival.approved)

	resp = doForm(router, cookie, "/pending/p1/deny", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	require.Equal(t, []string{"p1"}, festival.deletedPending)
}

func TestStandingsCSVExport(t *testing.T) {
	router := buildPanelRouter(t, newFakeFestival(t))
	cookie := login(t, router)

	resp := doGet(router, cookie, "/export/standings.csv")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Header().Get("Content-Disposition"), "team-standings.csv")

	lines := strings.Split(strings.TrimSpace(resp.Body.String()), "\n")
	require.Equal(t, "Rank,Team,Points", lines[0])
	require.Equal(t, "1,Blue,90", lines[1])
	require.Equal(t, "2,Red,40", lines[2])
}

func TestLogoutClearsSession(t *testing.T) {
	router := buildPanelRouter(t, newFakeFestival(t))
	cookie := login(t, router)

	resp := doForm(router, cookie, "/logout", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.Code)

	resp = doGet(router, cookie, "/")
	require.Equal(t, http.StatusSeeOther, resp.Code)
	require.Equal(t, "/login", resp.Header().Get("Location"))
}
