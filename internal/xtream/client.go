package xtream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pgray/antenna/internal/domain"
)

const (
	defaultTimeout = 60 * time.Second
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
)

// Portal API actions
const (
	actionLiveCategories   = "get_live_categories"
	actionVodCategories    = "get_vod_categories"
	actionSeriesCategories = "get_series_categories"
	actionLiveStreams      = "get_live_streams"
	actionVodStreams       = "get_vod_streams"
	actionSeries           = "get_series"
	actionSeriesInfo       = "get_series_info"
	actionVodInfo          = "get_vod_info"
)

// Client talks to an Xtream Codes portal (player_api.php).
// It implements domain.CatalogRepository, domain.DetailRepository and
// domain.Authenticator.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new portal API client
func NewClient(baseURL, username, password string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated request against player_api.php.
// Includes retry logic with exponential backoff for 5xx server errors.
func (c *Client) doRequest(ctx context.Context, action string, params url.Values) ([]byte, error) {
	query := url.Values{}
	query.Set("username", c.username)
	query.Set("password", c.password)
	if action != "" {
		query.Set("action", action)
	}
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	reqURL := fmt.Sprintf("%s/player_api.php?%s", c.baseURL, query.Encode())

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "action", action)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		c.logger.Debug("portal request", "action", action, "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("portal request failed", "action", action, "error", err)
			return nil, domain.ErrProviderOffline
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, domain.ErrAuthFailed
		}

		// Retry on 5xx server errors
		if resp.StatusCode >= 500 && resp.StatusCode < 600 {
			lastErr = fmt.Errorf("server error: %d - %s", resp.StatusCode, string(body))
			c.logger.Warn("portal server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"action", action,
			)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			c.logger.Error("portal request error", "status", resp.StatusCode, "action", action)
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return body, nil
	}

	c.logger.Error("portal request failed after retries", "error", lastErr, "action", action)
	return nil, lastErr
}

// Authenticate validates credentials against the portal and returns the
// subscription snapshot. Panels report bad credentials with auth=0 and a
// 200 status rather than a 401.
func (c *Client) Authenticate(ctx context.Context) (*domain.Account, error) {
	body, err := c.doRequest(ctx, "", nil)
	if err != nil {
		return nil, err
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.UserInfo.Auth != 1 {
		return nil, domain.ErrAuthFailed
	}

	return mapAccount(resp, c.baseURL), nil
}

// VodCategories returns all VOD categories
func (c *Client) VodCategories(ctx context.Context) ([]domain.Category, error) {
	return c.getCategories(ctx, actionVodCategories)
}

// SeriesCategories returns all series categories
func (c *Client) SeriesCategories(ctx context.Context) ([]domain.Category, error) {
	return c.getCategories(ctx, actionSeriesCategories)
}

// LiveCategories returns all live TV categories
func (c *Client) LiveCategories(ctx context.Context) ([]domain.Category, error) {
	return c.getCategories(ctx, actionLiveCategories)
}

func (c *Client) getCategories(ctx context.Context, action string) ([]domain.Category, error) {
	body, err := c.doRequest(ctx, action, nil)
	if err != nil {
		return nil, err
	}

	var cats []category
	if err := json.Unmarshal(body, &cats); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return mapCategories(cats), nil
}

// VodStreams returns VOD entries, optionally narrowed to one category
func (c *Client) VodStreams(ctx context.Context, categoryID string) ([]domain.Movie, error) {
	body, err := c.doRequest(ctx, actionVodStreams, categoryParams(categoryID))
	if err != nil {
		return nil, err
	}

	var streams []vodStream
	if err := json.Unmarshal(body, &streams); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return mapMovies(streams), nil
}

// Series returns series entries, optionally narrowed to one category
func (c *Client) Series(ctx context.Context, categoryID string) ([]domain.Series, error) {
	body, err := c.doRequest(ctx, actionSeries, categoryParams(categoryID))
	if err != nil {
		return nil, err
	}

	var entries []seriesEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return mapSeries(entries), nil
}

// LiveStreams returns live channels, optionally narrowed to one category
func (c *Client) LiveStreams(ctx context.Context, categoryID string) ([]domain.Channel, error) {
	body, err := c.doRequest(ctx, actionLiveStreams, categoryParams(categoryID))
	if err != nil {
		return nil, err
	}

	var streams []liveStream
	if err := json.Unmarshal(body, &streams); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return mapChannels(streams), nil
}

// SeriesInfo returns seasons and episodes for one series
func (c *Client) SeriesInfo(ctx context.Context, seriesID int) (*domain.SeriesInfo, error) {
	params := url.Values{}
	params.Set("series_id", strconv.Itoa(seriesID))

	body, err := c.doRequest(ctx, actionSeriesInfo, params)
	if err != nil {
		return nil, err
	}

	var resp seriesInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	info := mapSeriesInfo(resp)
	if info.Series.ID == 0 {
		info.Series.ID = seriesID
	}
	return info, nil
}

// MovieInfo returns extended metadata for one VOD entry
func (c *Client) MovieInfo(ctx context.Context, vodID int) (*domain.MovieInfo, error) {
	params := url.Values{}
	params.Set("vod_id", strconv.Itoa(vodID))

	body, err := c.doRequest(ctx, actionVodInfo, params)
	if err != nil {
		return nil, err
	}

	var resp vodInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	info := mapMovieInfo(resp)
	if info.Movie.ID == 0 {
		info.Movie.ID = vodID
	}
	return info, nil
}

// LiveStreamURL builds the playback URL for a live channel.
// URL construction only; playback is delegated to an external player.
func (c *Client) LiveStreamURL(streamID int) string {
	return fmt.Sprintf("%s/live/%s/%s/%d.ts", c.baseURL, c.username, c.password, streamID)
}

// MovieStreamURL builds the playback URL for a VOD entry
func (c *Client) MovieStreamURL(streamID int, containerExtension string) string {
	if containerExtension == "" {
		containerExtension = "mp4"
	}
	return fmt.Sprintf("%s/movie/%s/%s/%d.%s", c.baseURL, c.username, c.password, streamID, containerExtension)
}

// EpisodeStreamURL builds the playback URL for a series episode
func (c *Client) EpisodeStreamURL(episodeID int, containerExtension string) string {
	if containerExtension == "" {
		containerExtension = "mp4"
	}
	return fmt.Sprintf("%s/series/%s/%s/%d.%s", c.baseURL, c.username, c.password, episodeID, containerExtension)
}

func categoryParams(categoryID string) url.Values {
	if categoryID == "" {
		return nil
	}
	params := url.Values{}
	params.Set("category_id", categoryID)
	return params
}
