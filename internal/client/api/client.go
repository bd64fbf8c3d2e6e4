// Package api is the HTTP client of the claimcheck server used by the CLI.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/claimcheck/internal/common"
	"github.com/dmitrijs2005/claimcheck/internal/netx"
)

// ErrUnauthorized means the server rejected the credentials or token.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx answer carrying the server's detail message.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// Analysis is a decision record as returned by the server. The analyze call
// fills only ID, Decision, Reasoning, ConfidenceScore and AnalyzedAt.
type Analysis struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id,omitempty"`
	PolicyFile      string    `json:"policy_file,omitempty"`
	ClaimFile       string    `json:"claim_file,omitempty"`
	BillsFile       string    `json:"bills_file,omitempty"`
	DoctorNotesFile string    `json:"doctor_notes_file,omitempty"`
	Decision        string    `json:"decision"`
	Reasoning       string    `json:"reasoning"`
	ConfidenceScore *float64  `json:"confidence_score"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// Documents names the four local files of one claim.
type Documents struct {
	Policy      string
	Claim       string
	Bills       string
	DoctorNotes string
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New returns a client for the API rooted at baseURL, for example
// "http://127.0.0.1:8080/api".
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken sets the bearer token sent with authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Register(ctx context.Context, email, password, fullName string) (*TokenResponse, error) {
	in := map[string]string{"email": email, "password": password, "full_name": fullName}
	var out TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	in := map[string]string{"email": email, "password": password}
	var out TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns the newest records first. limit <= 0 leaves the choice to
// the server.
func (c *Client) History(ctx context.Context, limit int) ([]Analysis, error) {
	path := "/claims/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []Analysis
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Analysis, error) {
	var out Analysis
	if err := c.doJSON(ctx, http.MethodGet, "/claims/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analyze uploads the four documents and waits for the decision.
func (c *Client) Analyze(ctx context.Context, docs Documents) (*Analysis, error) {
	body, contentType, err := multipartBody([]struct{ field, path string }{
		{"policy", docs.Policy},
		{"claim", docs.Claim},
		{"bills", docs.Bills},
		{"doctor_notes", docs.DoctorNotes},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/claims/analyze", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	var out Analysis
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func multipartBody(parts []struct{ field, path string }) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.path == "" {
			return nil, "", fmt.Errorf("%w: %s file is required", common.ErrMalformedRequest, p.field)
		}
		if err := addFile(mw, p.field, p.path); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func addFile(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	req, err := netx.NewJSONRequest(ctx, method, c.baseURL+path, in)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+c.token)
	}

	err := netx.Do(c.http, req, out)
	var se *netx.StatusError
	if errors.As(err, &se) {
		return toError(se)
	}
	return err
}

func toError(se *netx.StatusError) *Error {
	var body struct {
		Detail string `json:"detail"`
	}
	e := &Error{StatusCode: se.StatusCode}
	if json.Unmarshal(se.Body, &body) == nil {
		e.Detail = body.Detail
	} else {
		e.Detail = strings.TrimSpace(string(se.Body))
	}
	return e
}
