package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/marcusziade/compiledthoughts/internal/core/domain"
)

// Classifier turns a parsed status payload into a poll outcome.
type Classifier interface {
	Classify(payload *domain.StatusPayload) domain.Outcome
}

// Client fetches the presence proxy endpoint. It performs exactly one
// outbound request per Fetch call; retries belong to the poll scheduler,
// never to the transport layer.
type Client struct {
	endpoint   string
	httpClient *http.Client
	classifier Classifier
}

// New creates a presence fetch client with a fixed request timeout.
func New(endpoint string, timeout time.Duration, classifier Classifier) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		classifier: classifier,
	}
}

// Fetch issues one GET to the presence endpoint and maps the result to an
// outcome. Transport failures, timeouts, non-2xx statuses, and unparseable
// bodies are hard failures; everything else is delegated to the classifier.
func (c *Client) Fetch(ctx context.Context) domain.Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return domain.HardFailure(fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return domain.HardFailure("timeout")
		}
		return domain.HardFailure(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return domain.HardFailure(fmt.Sprintf("http %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return domain.HardFailure("timeout")
		}
		return domain.HardFailure(fmt.Sprintf("read response: %v", err))
	}

	var payload domain.StatusPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.HardFailure("invalid json")
	}

	return c.classifier.Classify(&payload)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
