// Package client talks to the content API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/vidhi-1412/Realestate/internal/domain"
)

const uploadField = "file"

// APIError is a non-2xx answer. Message is the server's {error} string.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBearerToken sets the Authorization header some gateways in front of
// the API expect. The API itself does not check it.
func WithBearerToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", out.Status)
	}
	return nil
}

func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	return out, c.doJSON(ctx, http.MethodGet, "/projects", nil, &out)
}

func (c *Client) AddProject(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	var out struct {
		Project *domain.Project `json:"project"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/projects", in, &out); err != nil {
		return nil, err
	}
	return out.Project, nil
}

func (c *Client) ListClients(ctx context.Context) ([]domain.Client, error) {
	var out []domain.Client
	return out, c.doJSON(ctx, http.MethodGet, "/clients", nil, &out)
}

func (c *Client) AddClient(ctx context.Context, in domain.ClientInput) (*domain.Client, error) {
	var out struct {
		Client *domain.Client `json:"client"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/clients", in, &out); err != nil {
		return nil, err
	}
	return out.Client, nil
}

func (c *Client) ListContactSubmissions(ctx context.Context) ([]domain.ContactSubmission, error) {
	var out []domain.ContactSubmission
	return out, c.doJSON(ctx, http.MethodGet, "/contact", nil, &out)
}

func (c *Client) SubmitContact(ctx context.Context, in domain.ContactInput) (*domain.ContactSubmission, error) {
	if err := ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	var out struct {
		Submission *domain.ContactSubmission `json:"submission"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/contact", in, &out); err != nil {
		return nil, err
	}
	return out.Submission, nil
}

func (c *Client) ListNewsletterSubscriptions(ctx context.Context) ([]domain.NewsletterSubscription, error) {
	var out []domain.NewsletterSubscription
	return out, c.doJSON(ctx, http.MethodGet, "/newsletter", nil, &out)
}

func (c *Client) Subscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPost, "/newsletter", domain.NewsletterInput{Email: email}, nil)
}

// Upload sends data as the single file part and returns the storage path.
func (c *Client) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadField, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out struct {
		Path string `json:"path"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.Path == "" {
		return "", fmt.Errorf("upload response carried no path")
	}
	return out.Path, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = "API Request Failed"
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
