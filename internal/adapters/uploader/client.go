package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"listing-ingest-service/internal/configs"
	"listing-ingest-service/internal/contextkeys"
	"listing-ingest-service/internal/contracts"
	"listing-ingest-service/internal/core/domain"
	"listing-ingest-service/internal/core/port"
)

// upstreamResponse is the create-or-update endpoint's contract: a non-empty
// updated_properties list means the record already existed.
type upstreamResponse struct {
	Success           bool     `json:"success"`
	UpdatedProperties []string `json:"updated_properties"`
	Error             string   `json:"error"`
	HTTPCode          int      `json:"http_code"`
}

// Client sends one canonical record at a time to the downstream property API
// with bounded retries. Inter-listing pacing is the pipeline's job, not the
// client's; only retries within one Send back off.
type Client struct {
	http     *retryablehttp.Client
	endpoint string
	apiKey   string
	retryMax int

	// attempts of the most recent call. Runs are strictly sequential, so a
	// plain field behind the request hook is safe.
	attempts int
}

func NewClient(cfg configs.UploadConfig) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	if rc.RetryMax <= 0 {
		rc.RetryMax = 3
	}
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil

	c := &Client{
		http:     rc,
		endpoint: cfg.APIURL,
		apiKey:   cfg.APIKey,
		retryMax: rc.RetryMax,
	}
	rc.RequestLogHook = func(_ retryablehttp.Logger, _ *http.Request, attempt int) {
		c.attempts = attempt + 1
	}
	return c
}

// Send validates the record against the listing contract, posts it and
// classifies the outcome. A transport failure after all retries returns both
// a failed UploadResult and the error.
func (c *Client) Send(ctx context.Context, listing *domain.Listing) (*domain.UploadResult, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "UploadClient",
		"listing_id": listing.ListingID,
	})

	body, err := json.Marshal(listing)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal listing %s: %w", listing.ListingID, err)
	}
	if err := contracts.ValidateListing(body); err != nil {
		return nil, fmt.Errorf("listing %s rejected by contract: %w", listing.ListingID, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.attempts = 0
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("Upload failed after retries", err, port.Fields{"attempts": c.attempts})
		return &domain.UploadResult{
			Outcome:  domain.OutcomeFailed,
			Attempts: c.attempts,
			Error:    err.Error(),
		}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}

	var parsed upstreamResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("upload response is not valid JSON (status %d): %w", resp.StatusCode, err)
	}

	result := &domain.UploadResult{
		Attempts: c.attempts,
		HTTPCode: resp.StatusCode,
	}

	if !parsed.Success {
		result.Outcome = domain.OutcomeFailed
		result.Error = parsed.Error
		if parsed.HTTPCode != 0 {
			result.HTTPCode = parsed.HTTPCode
		}
		logger.Error("Upstream rejected listing", nil, port.Fields{
			"upstream_error": parsed.Error,
			"http_code":      result.HTTPCode,
		})
		return result, nil
	}

	if len(parsed.UpdatedProperties) > 0 {
		result.Outcome = domain.OutcomeUpdated
	} else {
		result.Outcome = domain.OutcomeCreated
	}

	logger.Debug("Upload finished", port.Fields{
		"outcome":  string(result.Outcome),
		"attempts": result.Attempts,
	})
	return result, nil
}
