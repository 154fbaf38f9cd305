package wcpcli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"wcp-fetch/internal/logger"
)

// App is one entry of the `wcpcli apps:list` listing.
type App struct {
	ID          string `json:"id"`          // Numeric id assigned by the platform, used for downloads
	ReferenceID string `json:"referenceId"` // Human-assigned stable identifier
	Name        string `json:"name"`        // Display name
}

// ListApps fetches the application listing via `wcpcli apps:list`.
// The tool prints a human-readable status line before the JSON array, so
// everything up to and including the first newline is discarded before
// decoding.
func (c *Client) ListApps(ctx context.Context) ([]App, error) {
	out, err := c.runner.Run(ctx, "apps:list")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch apps list: %w", err)
	}

	// Skip the leading status line.
	if i := strings.Index(out, "\n"); i >= 0 {
		out = out[i+1:]
	}
	if strings.TrimSpace(out) == "" {
		return nil, fmt.Errorf("empty response from wcpcli apps:list")
	}

	var apps []App
	if err := json.Unmarshal([]byte(out), &apps); err != nil {
		return nil, fmt.Errorf("failed to decode JSON from wcpcli apps:list: %w", err)
	}
	logger.Debug("[DEBUG] apps:list returned %d entries\n", len(apps))
	return apps, nil
}

// ResolveAppID looks up the numeric application id for the given reference
// id. An absent reference id is an error; no download should be attempted
// in that case.
func (c *Client) ResolveAppID(ctx context.Context, referenceID string) (string, error) {
	apps, err := c.ListApps(ctx)
	if err != nil {
		return "", err
	}
	for _, app := range apps {
		if app.ReferenceID == referenceID {
			logger.Info("[INFO] Found application id %s for %s (%s)\n", app.ID, referenceID, app.Name)
			return app.ID, nil
		}
	}
	return "", fmt.Errorf("application with reference id %q not found", referenceID)
}
