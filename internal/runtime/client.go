// Package runtime talks to the local model runtime: it queries and fills the
// model inventory over the runtime's HTTP API and manages the lifetime of a
// background serve process.
package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// DefaultBaseURL is where the runtime listens when nothing is configured.
const DefaultBaseURL = "http://localhost:11434"

// Client is a minimal client for the runtime HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the runtime listening at baseURL. An empty
// baseURL falls back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Pulling a model downloads gigabytes; the request deadline comes
		// from the caller's context, not from the HTTP client.
		http: &http.Client{},
	}
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// HasModel reports whether name is present in the local model inventory. A
// name without a tag matches any tag of that model.
func (c *Client) HasModel(ctx context.Context, name string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false, errors.Wrap(err, "unable to build tags request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "unable to list models")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, errors.Errorf("unexpected status %d listing models", resp.StatusCode)
	}

	var tags tagsResponse

	err = json.NewDecoder(resp.Body).Decode(&tags)
	if err != nil {
		return false, errors.Wrap(err, "unable to decode tags response")
	}

	for _, m := range tags.Models {
		if m.Name == name {
			return true, nil
		}

		if !strings.Contains(name, ":") && strings.HasPrefix(m.Name, name+":") {
			return true, nil
		}
	}

	return false, nil
}

type pullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

type pullResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Pull downloads the named model into the local inventory. It blocks until
// the runtime reports success or the context is cancelled.
func (c *Client) Pull(ctx context.Context, name string) error {
	body, err := json.Marshal(pullRequest{Name: name})
	if err != nil {
		return errors.Wrap(err, "unable to encode pull request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "unable to build pull request")
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "unable to pull model %s", name)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "unable to read pull response")
	}

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d pulling model %s: %s", resp.StatusCode, name, strings.TrimSpace(string(raw)))
	}

	var pull pullResponse

	err = json.Unmarshal(raw, &pull)
	if err != nil {
		return errors.Wrap(err, "unable to decode pull response")
	}

	if pull.Error != "" {
		return errors.Errorf("runtime refused to pull model %s: %s", name, pull.Error)
	}

	return nil
}
