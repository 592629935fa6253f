package forecast

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/voltsched/greencharge/infra/logger"
)

// Client polls a carbon-intensity HTTP feed and stores the records.
type Client struct {
	store    *Store
	log      logger.Logger
	client   *http.Client
	apiURL   string
	interval time.Duration
}

// NewClient creates a polling client writing into the given store.
func NewClient(apiURL string, pollInterval time.Duration, store *Store) *Client {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Minute
	}
	return &Client{
		store:    store,
		log:      logger.New("carbon-feed"),
		client:   &http.Client{Timeout: 10 * time.Second},
		apiURL:   apiURL,
		interval: pollInterval,
	}
}

// Start fetches once immediately, then polls until the context is cancelled.
func (c *Client) Start(ctx context.Context) error {
	if err := c.poll(ctx); err != nil {
		c.log.Errorf("initial poll: %v", err)
	}
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.poll(ctx); err != nil {
				c.log.Errorf("poll error: %v", err)
			}
		}
	}
}

func (c *Client) poll(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("carbon feed returned %s", resp.Status)
	}
	series, err := DecodeFeed(resp.Body)
	if err != nil {
		return err
	}
	if err := c.store.Put(ctx, series.Records); err != nil {
		return fmt.Errorf("cache records: %w", err)
	}
	c.log.Debugf("cached %d carbon records from %s", len(series.Records), c.apiURL)
	return nil
}
