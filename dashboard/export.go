package dashboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/miniBill/sdc-map/store"
)

// ExportAnswers packs the fetched ciphertext map into a single base64 blob
// for offline analysis. Entries stay encrypted; the blob carries no more
// than the server already stores.
func ExportAnswers(answers map[string]store.Submission) (string, error) {
	raw, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("marshal answers: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// ImportAnswers unpacks a blob produced by ExportAnswers.
func ImportAnswers(blob string) (map[string]store.Submission, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("decode blob: %w", err)
	}

	var answers map[string]store.Submission
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	return answers, nil
}

// Restore pushes every submission from an imported blob back into the
// collection server through the public submit endpoint. The server assigns
// fresh ids, so restoring into a non-empty store can duplicate entries.
func (c *Client) Restore(ctx context.Context, answers map[string]store.Submission) *NetworkError {
	for _, submission := range answers {
		payload, err := json.Marshal(submission)
		if err != nil {
			return &NetworkError{Kind: BadURL, Err: err}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/submit", bytes.NewReader(payload))
		if err != nil {
			return &NetworkError{Kind: BadURL, Err: err}
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &NetworkError{Kind: Unreachable, Err: err}
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			return &NetworkError{Kind: BadStatus, Status: resp.StatusCode}
		}
	}
	return nil
}
