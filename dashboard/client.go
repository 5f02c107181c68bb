package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/miniBill/sdc-map/store"
)

// NetworkErrorKind classifies transport failures talking to the collection
// server.
type NetworkErrorKind int

const (
	// BadURL means the request could not even be built.
	BadURL NetworkErrorKind = iota
	// Unreachable covers connection and timeout failures.
	Unreachable
	// BadStatus means the server answered with an unexpected status.
	BadStatus
	// BadBody means the response body could not be read or parsed.
	BadBody
	// Unauthorized means the server rejected the shared admin key.
	Unauthorized
)

// NetworkError is a classified transport failure.
type NetworkError struct {
	Kind   NetworkErrorKind
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	switch e.Kind {
	case BadURL:
		return fmt.Sprintf("bad request: %v", e.Err)
	case Unreachable:
		return fmt.Sprintf("server unreachable: %v", e.Err)
	case BadStatus:
		return fmt.Sprintf("unexpected status %d", e.Status)
	case BadBody:
		return fmt.Sprintf("bad response body: %v", e.Err)
	case Unauthorized:
		return "admin key rejected"
	default:
		return "network error"
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client talks to the collection server's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the collection server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchAnswers retrieves the full id to ciphertext map using the shared
// admin key.
func (c *Client) FetchAnswers(ctx context.Context, adminKey string) (map[string]store.Submission, *NetworkError) {
	payload, err := json.Marshal(map[string]string{"key": adminKey})
	if err != nil {
		return nil, &NetworkError{Kind: BadURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/admin/answers", bytes.NewReader(payload))
	if err != nil {
		return nil, &NetworkError{Kind: BadURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Kind: Unreachable, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, &NetworkError{Kind: Unauthorized, Status: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return nil, &NetworkError{Kind: BadStatus, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Kind: BadBody, Err: err}
	}

	var answers map[string]store.Submission
	if err := json.Unmarshal(body, &answers); err != nil {
		return nil, &NetworkError{Kind: BadBody, Err: err}
	}
	return answers, nil
}
