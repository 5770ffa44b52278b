package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ConnectionFailureMessage is shown when the backend cannot be reached at all.
const ConnectionFailureMessage = "Không thể kết nối đến máy chủ. Vui lòng thử lại sau."

var (
	ErrUnavailable = errors.New("backend unavailable")
	errServerSide  = errors.New("backend 5xx")
)

// APIError is a failure reported by the backend itself (non-2xx or success=false).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

// UserMessage returns the text to surface to the shopper for err.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return ConnectionFailureMessage
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type rawResponse struct {
	status int
	body   []byte
}

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client

	breaker *gobreaker.CircuitBreaker[*rawResponse]
}

func NewClient(name string, baseURL string, httpClient *http.Client) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[backend] breaker %s: %s -> %s", name, from, to)
		},
	}

	return &Client{
		Name:    name,
		BaseURL: u,
		HTTP:    httpClient,
		breaker: gobreaker.NewCircuitBreaker[*rawResponse](st),
	}
}

// do sends one request and decodes the envelope's data into out (when out is non-nil).
// There is no retry: a failed call is reported to the caller once.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, in, out any) error {
	u := c.BaseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = b
	}

	res, err := c.breaker.Execute(func() (*rawResponse, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if cid := CorrelationIDFrom(ctx); cid != "" {
			req.Header.Set(HeaderCorrelationID, cid)
		}

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		raw := &rawResponse{status: resp.StatusCode, body: b}
		if resp.StatusCode >= http.StatusInternalServerError {
			return raw, errServerSide
		}
		return raw, nil
	})
	if err != nil && !errors.Is(err, errServerSide) {
		return fmt.Errorf("%s %s %s: %w: %v", c.Name, method, path, ErrUnavailable, err)
	}

	var env envelope
	if len(res.body) > 0 {
		if jerr := json.Unmarshal(res.body, &env); jerr != nil && res.status < 300 {
			return fmt.Errorf("decode %s %s: %w", method, path, jerr)
		}
	}

	if res.status >= 300 || (env.Success != nil && !*env.Success) {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(res.status)
		}
		return &APIError{Status: res.status, Message: msg}
	}

	if out == nil {
		return nil
	}
	data := env.Data
	if len(data) == 0 {
		// some endpoints answer without the envelope
		data = res.body
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}
