package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chatgridhq/chatgrid/internal/config"
)

// Client talks to the WhatsApp Cloud (Graph) API.
type Client struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
}

// NewClient creates a Graph API client from configuration.
func NewClient(cfg config.WhatsAppConfig) *Client {
	return &Client{
		baseURL:    cfg.GraphBaseURL,
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.MediaTimeoutSeconds) * time.Second,
		},
	}
}

// GetMediaInfo resolves a provider media id to its short-lived download
// descriptor. The access token is per channel, so callers pass it in.
func (c *Client) GetMediaInfo(ctx context.Context, accessToken, mediaID string) (MediaInfo, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiVersion, mediaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return MediaInfo{}, fmt.Errorf("build media info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return MediaInfo{}, fmt.Errorf("get media info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return MediaInfo{}, fmt.Errorf("get media info: status %d: %s", resp.StatusCode, body)
	}

	var info MediaInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return MediaInfo{}, fmt.Errorf("decode media info: %w", err)
	}
	if info.URL == "" {
		return MediaInfo{}, fmt.Errorf("media info for %s has no download url", mediaID)
	}
	return info, nil
}

// DownloadMedia fetches the media binary from the short-lived URL
// returned by GetMediaInfo. The URL only works with the same token.
func (c *Client) DownloadMedia(ctx context.Context, accessToken, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build media download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("download media: status %d: %s", resp.StatusCode, body)
	}
	return io.ReadAll(resp.Body)
}
