package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/artsfest/admin-panel/internal/models"
	"github.com/artsfest/admin-panel/pkg/config"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
)

type tokenKey struct{}

// WithToken returns a context carrying the bearer token for subsequent
// backend calls. Calls without a token are sent unauthenticated and the
// backend rejects them.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom extracts the bearer token from the context, if any.
func TokenFrom(ctx context.Context) string {
	if v, ok := ctx.Value(tokenKey{}).(string); ok {
		return v
	}
	return ""
}

// Client is the typed HTTP client for the festival backend. The panel holds
// no authoritative data; every read and mutation goes through here.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *zap.Logger
	observer func(method, path string, duration time.Duration, err error)
}

// New constructs a backend client.
func New(cfg config.BackendConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// SetObserver installs a callback invoked after every backend round trip,
// used for metrics.
func (c *Client) SetObserver(fn func(method, path string, duration time.Duration, err error)) {
	c.observer = fn
}

// LoginResponse is the backend's answer to a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	UserName string `json:"userName"`
}

// Login authenticates an operator against the backend.
func (c *Client) Login(ctx context.Context, userName, password string) (*LoginResponse, error) {
	body := map[string]string{"userName": userName, "password": password}
	var res LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListTeams fetches every team.
func (c *Client) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := c.doJSON(ctx, http.MethodGet, "/teams", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// ListCandidates fetches every candidate across all teams and categories.
func (c *Client) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := c.doJSON(ctx, http.MethodGet, "/candidates", nil, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// CreateCandidateInput carries the multipart candidate creation form.
type CreateCandidateInput struct {
	TeamID      string
	Category    models.Category
	AdmissionNo string
	Name        string
	ImageName   string
	Image       io.Reader
}

// CreateCandidate creates a candidate via the backend's multipart endpoint.
func (c *Client) CreateCandidate(ctx context.Context, in CreateCandidateInput) error {
	buf := &bytes.Buffer{}
	form := multipart.NewWriter(buf)

	fields := map[string]string{
		"team":        in.TeamID,
		"category":    string(in.Category),
		"admissionNo": in.AdmissionNo,
		"name":        in.Name,
	}
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build candidate form")
		}
	}

	part, err := form.CreateFormFile("image", in.ImageName)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach candidate image")
	}
	if _, err := io.Copy(part, in.Image); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read candidate image")
	}
	if err := form.Close(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to finalise candidate form")
	}

	return c.do(ctx, http.MethodPost, "/candidates", buf, form.FormDataContentType(), nil)
}

// DeleteCandidate removes a candidate.
func (c *Client) DeleteCandidate(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/candidates/"+id, nil, nil)
}

// ListProgrammes fetches every programme.
func (c *Client) ListProgrammes(ctx context.Context) ([]models.Programme, error) {
	var programmes []models.Programme
	if err := c.doJSON(ctx, http.MethodGet, "/programmes", nil, &programmes); err != nil {
		return nil, err
	}
	return programmes, nil
}

// CreateProgrammeInput carries the programme creation payload. Date is the
// raw datetime-local value; the backend parses it.
type CreateProgrammeInput struct {
	Name        string               `json:"name"`
	Type        models.ProgrammeType `json:"type"`
	Date        string               `json:"date"`
	Category    models.Category      `json:"category"`
	Description string               `json:"description,omitempty"`
}

// CreateProgramme creates a programme.
func (c *Client) CreateProgramme(ctx context.Context, in CreateProgrammeInput) error {
	return c.doJSON(ctx, http.MethodPost, "/programmes", in, nil)
}

// DeleteProgramme removes a programme.
func (c *Client) DeleteProgramme(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/programmes/"+id, nil, nil)
}

// ListResults fetches all results across programmes.
func (c *Client) ListResults(ctx context.Context) ([]models.Result, error) {
	var results []models.Result
	if err := c.doJSON(ctx, http.MethodGet, "/results", nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// ProgrammeResults fetches the results recorded for one programme.
func (c *Client) ProgrammeResults(ctx context.Context, programmeID string) ([]models.Result, error) {
	var results []models.Result
	if err := c.doJSON(ctx, http.MethodGet, "/programmes/"+programmeID+"/results", nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// ResultEntry is one row of a batch submission. Rank and Grade are emitted
// as explicit nulls when absent; the backend distinguishes null from
// omitted.
type ResultEntry struct {
	CandidateID string  `json:"candidateId"`
	Rank        *int    `json:"rank"`
	Grade       *string `json:"grade"`
}

// SubmitResults replaces the pending results for a programme with the given
// batch.
func (c *Client) SubmitResults(ctx context.Context, programmeID string, entries []ResultEntry) error {
	body := map[string]interface{}{"results": entries}
	return c.doJSON(ctx, http.MethodPost, "/programmes/"+programmeID+"/results", body, nil)
}

// DeletePendingResults deletes every pending result for a programme. The
// backend treats this as irreversible.
func (c *Client) DeletePendingResults(ctx context.Context, programmeID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/programmes/"+programmeID+"/results", nil, nil)
}

// ApproveResults approves and publishes a programme's pending results,
// triggering point calculation backend-side. Irreversible.
func (c *Client) ApproveResults(ctx context.Context, programmeID string) error {
	return c.doJSON(ctx, http.MethodPost, "/programmes/"+programmeID+"/approve", nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, reader, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) (err error) {
	if c.observer != nil {
		start := time.Now()
		defer func() {
			c.observer(method, path, time.Since(start), err)
		}()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build backend request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrBackendUnreachable.Code, appErrors.ErrBackendUnreachable.Status, appErrors.ErrBackendUnreachable.Message)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return c.errorFrom(res, method, path)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrBackend.Code, appErrors.ErrBackend.Status, "failed to decode backend response")
	}
	return nil
}

// errorFrom surfaces the backend's message verbatim when one is present.
func (c *Client) errorFrom(res *http.Response, method, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))

	message := ""
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		message = payload.Message
	}
	if message == "" {
		message = fmt.Sprintf("backend returned status %d", res.StatusCode)
	}

	c.logger.Warn("backend rejected request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", res.StatusCode),
		zap.String("message", message),
	)

	code := appErrors.ErrBackend.Code
	if res.StatusCode == http.StatusUnauthorized {
		code = appErrors.ErrUnauthorized.Code
	}
	return appErrors.New(code, res.StatusCode, message)
}
