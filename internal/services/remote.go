// Remote music server [Provider] implementation
//
// Speaks JSON over HTTP. Mutations answer with {"success": bool} except create, which answers with {"id": n}.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultServerURL string = "http://127.0.0.1:7905"

var (
	_ Provider = (*RemoteProvider)(nil)
	_ Browser  = (*RemoteProvider)(nil)
)

// RemoteOpts configures a [RemoteProvider].
type RemoteOpts struct {
	BaseURL    string
	Token      string       // Bearer token, optional
	RateLimit  float64      // Requests per second, 0 disables limiting
	Burst      int          // Limiter burst, defaults to 1
	HTTPClient *http.Client // Base client, defaults to [http.DefaultClient]
	Logger     *log.Logger
}

// RemoteProvider implements [Provider] and [Browser] over HTTP.
type RemoteProvider struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger

	mu        sync.Mutex
	attached  bool
	destroyed bool
}

type successResponse struct {
	Success bool `json:"success"`
}

type createResponse struct {
	ID int64 `json:"id"`
}

type appendRequest struct {
	ExternalIDs []string `json:"external_ids,omitempty"`
	Category    string   `json:"category,omitempty"`
	CategoryID  int64    `json:"category_id,omitempty"`
}

type removeRequest struct {
	ExternalIDs []string `json:"external_ids"`
	Positions   []int    `json:"positions"`
}

// NewRemoteProvider creates a provider for the server at opts.BaseURL.
func NewRemoteProvider(opts RemoteOpts) *RemoteProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultServerURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	client := opts.HTTPClient
	if opts.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, opts.HTTPClient)
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}))
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &RemoteProvider{
		baseURL:    opts.BaseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(limit, opts.Burst),
		logger:     shared.WithLogger(opts.Logger, "component", "provider"),
	}
}

// Attach marks the provider as serving a live UI surface.
func (p *RemoteProvider) Attach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		p.logger.Warn("attach after destroy ignored")
		return
	}
	p.attached = true
	p.logger.Debug("attached")
}

// Detach marks the provider paused. In-flight requests keep running.
func (p *RemoteProvider) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attached = false
	p.logger.Debug("detached")
}

// Destroy releases idle connections; subsequent calls fail with [shared.ErrDestroyed].
func (p *RemoteProvider) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return
	}
	p.attached = false
	p.destroyed = true
	p.httpClient.CloseIdleConnections()
	p.logger.Debug("destroyed")
}

// Attached reports whether the provider is currently attached.
func (p *RemoteProvider) Attached() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attached
}

func (p *RemoteProvider) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	p.mu.Lock()
	destroyed := p.destroyed
	p.mu.Unlock()
	if destroyed {
		return fmt.Errorf("%w: provider", shared.ErrDestroyed)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", shared.ErrAPIRequest, err)
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	p.logger.Debug("request", "method", method, "endpoint", endpoint)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

func playlistPath(id int64) string {
	return "/api/playlists/" + strconv.FormatInt(id, 10)
}

// CreatePlaylist calls POST /api/playlists.
func (p *RemoteProvider) CreatePlaylist(ctx context.Context, name string) (int64, error) {
	var resp createResponse
	body := map[string]string{"name": name}
	if err := p.doRequest(ctx, http.MethodPost, "/api/playlists", body, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// RenamePlaylist calls PUT /api/playlists/{id}.
func (p *RemoteProvider) RenamePlaylist(ctx context.Context, id int64, name string) (bool, error) {
	var resp successResponse
	body := map[string]string{"name": name}
	if err := p.doRequest(ctx, http.MethodPut, playlistPath(id), body, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

// DeletePlaylist calls DELETE /api/playlists/{id}.
func (p *RemoteProvider) DeletePlaylist(ctx context.Context, id int64) (bool, error) {
	var resp successResponse
	if err := p.doRequest(ctx, http.MethodDelete, playlistPath(id), nil, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

// AppendTracks calls POST /api/playlists/{id}/tracks with external ids.
func (p *RemoteProvider) AppendTracks(ctx context.Context, id int64, tracks []models.Track) (bool, error) {
	return p.appendToPlaylist(ctx, id, appendRequest{ExternalIDs: models.ExternalIDs(tracks)})
}

// AppendCategory calls POST /api/playlists/{id}/tracks with a category reference.
func (p *RemoteProvider) AppendCategory(ctx context.Context, id int64, categoryType string, categoryID int64) (bool, error) {
	return p.appendToPlaylist(ctx, id, appendRequest{Category: categoryType, CategoryID: categoryID})
}

// AppendCategoryValue appends the tracks of a browsed category value.
func (p *RemoteProvider) AppendCategoryValue(ctx context.Context, id int64, value models.CategoryValue) (bool, error) {
	return p.AppendCategory(ctx, id, value.Type, value.ID)
}

func (p *RemoteProvider) appendToPlaylist(ctx context.Context, id int64, body appendRequest) (bool, error) {
	var resp successResponse
	if err := p.doRequest(ctx, http.MethodPost, playlistPath(id)+"/tracks", body, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

// RemoveTracks calls POST /api/playlists/{id}/tracks/remove.
func (p *RemoteProvider) RemoveTracks(ctx context.Context, id int64, externalIDs []string, positions []int) (bool, error) {
	if len(externalIDs) != len(positions) {
		return false, fmt.Errorf("%w: %d external ids for %d positions", shared.ErrInvalidInput, len(externalIDs), len(positions))
	}

	var resp successResponse
	body := removeRequest{ExternalIDs: externalIDs, Positions: positions}
	if err := p.doRequest(ctx, http.MethodPost, playlistPath(id)+"/tracks/remove", body, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

// Playlists calls GET /api/playlists.
func (p *RemoteProvider) Playlists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := p.doRequest(ctx, http.MethodGet, "/api/playlists", nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// PlaylistTracks calls GET /api/playlists/{id}/tracks.
func (p *RemoteProvider) PlaylistTracks(ctx context.Context, id int64) ([]models.Track, error) {
	var tracks []models.Track
	if err := p.doRequest(ctx, http.MethodGet, playlistPath(id)+"/tracks", nil, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// CategoryValues calls GET /api/categories/{type}, optionally narrowed by another category.
func (p *RemoteProvider) CategoryValues(ctx context.Context, categoryType string, filter *models.CategoryRef) ([]models.CategoryValue, error) {
	endpoint := "/api/categories/" + url.PathEscape(categoryType)
	if filter != nil {
		q := url.Values{}
		q.Set("filter_type", filter.Type)
		q.Set("filter_id", strconv.FormatInt(filter.ID, 10))
		endpoint += "?" + q.Encode()
	}

	var values []models.CategoryValue
	if err := p.doRequest(ctx, http.MethodGet, endpoint, nil, &values); err != nil {
		return nil, err
	}
	for i := range values {
		if values[i].Type == "" {
			values[i].Type = categoryType
		}
	}
	return values, nil
}

// CategoryTracks calls GET /api/categories/{type}/{id}/tracks.
func (p *RemoteProvider) CategoryTracks(ctx context.Context, ref models.CategoryRef) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/api/categories/%s/%d/tracks", url.PathEscape(ref.Type), ref.ID)

	var tracks []models.Track
	if err := p.doRequest(ctx, http.MethodGet, endpoint, nil, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Play calls POST /api/playback to start playing a category on the server.
func (p *RemoteProvider) Play(ctx context.Context, ref models.CategoryRef) error {
	return p.doRequest(ctx, http.MethodPost, "/api/playback", ref, nil)
}
