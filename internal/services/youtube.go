// YouTube Music API [Service] implementation
//
// Communicates with the FastAPI proxy server (music/) running on port 8080.
// The proxy wraps ytmusicapi Python library for YouTube Music operations.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultYTBaseURL          = "http://localhost:8080"
	defaultPlaylistLimit      = 100
	defaultPlaylistTrackLimit = 5000
)

// YouTubeService talks to the ytmusicapi proxy. Requests are paced by a token bucket limiter.
type YouTubeService struct {
	baseURL            string
	authFile           string
	httpClient         *http.Client
	limiter            *rate.Limiter
	playlistLimit      int
	playlistTrackLimit int
}

// NewYouTubeService creates a new YouTube Music service instance.
func NewYouTubeService(baseURL string) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}

	return &YouTubeService{
		baseURL:            baseURL,
		httpClient:         http.DefaultClient,
		limiter:            rate.NewLimiter(rate.Inf, 1),
		playlistLimit:      defaultPlaylistLimit,
		playlistTrackLimit: defaultPlaylistTrackLimit,
	}
}

// SetRateLimit paces requests to rps per second; zero or less removes the limit.
func (y *YouTubeService) SetRateLimit(rps float64) {
	if rps <= 0 {
		y.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	y.limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

// SetProxy routes requests to the proxy service through rawURL (http, https or socks5).
//
// An empty rawURL keeps the default client, which honours HTTP_PROXY and HTTPS_PROXY.
func (y *YouTubeService) SetProxy(rawURL string) error {
	if rawURL == "" {
		return nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: http_proxy: %v", shared.ErrInvalidConfig, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return fmt.Errorf("%w: http_proxy: unsupported scheme %q", shared.ErrInvalidConfig, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: http_proxy: missing host", shared.ErrInvalidConfig)
	}

	y.httpClient = &http.Client{Transport: &http.Transport{Proxy: http.ProxyURL(u)}}
	return nil
}

// SetLimits sets how many library playlists and playlist tracks are requested.
func (y *YouTubeService) SetLimits(playlists, tracks int) {
	if playlists > 0 {
		y.playlistLimit = playlists
	}
	if tracks > 0 {
		y.playlistTrackLimit = tracks
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube Music"
}

// Authenticate stores the authentication file path for subsequent requests.
//
// Expects credentials["auth_file"] to contain the path to browser.json or oauth.json.
func (y *YouTubeService) Authenticate(ctx context.Context, credentials map[string]string) error {
	authFile, ok := credentials["auth_file"]
	if !ok || authFile == "" {
		return fmt.Errorf("%w: missing auth_file in credentials", shared.ErrMissingCredentials)
	}

	y.authFile = authFile
	return nil
}

func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.authFile != "" {
		req.Header.Set("X-Auth-File", y.authFile)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return transportError(y.Name(), err)
	}
	defer resp.Body.Close()

	return decodeResponse(y.Name(), resp, result, youtubeErrorDetail)
}

func youtubeErrorDetail(body []byte) string {
	var errResp struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	return errResp.Detail
}

// Health checks that the proxy is up.
//
// Calls GET /health on the proxy.
func (y *YouTubeService) Health(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	if err := y.doRequest(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return err
	}
	if status.Status != "" && status.Status != "ok" && status.Status != "healthy" {
		return fmt.Errorf("%w: proxy reported status %q", shared.ErrServiceUnavailable, status.Status)
	}
	return nil
}

// SetupAuth asks the proxy to write a browser auth file from raw request headers.
//
// Calls POST /auth/setup on the proxy.
func (y *YouTubeService) SetupAuth(ctx context.Context, headersRaw, authFile string) error {
	req := struct {
		HeadersRaw string `json:"headers_raw"`
		Filepath   string `json:"filepath"`
	}{HeadersRaw: headersRaw, Filepath: authFile}

	if err := y.doRequest(ctx, http.MethodPost, "/auth/setup", req, nil); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	y.authFile = authFile
	return nil
}

// Search runs a catalog search.
//
// Calls GET /api/search?q={query}&filter={filter} on the proxy.
func (y *YouTubeService) Search(ctx context.Context, query, filter string) ([]models.SearchResult, error) {
	params := url.Values{"q": {query}}
	if filter != "" {
		params.Set("filter", filter)
	}

	var results []models.SearchResult
	if err := y.doRequest(ctx, http.MethodGet, "/api/search?"+params.Encode(), nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// RateSong sets the rating of a song; [models.RatingLike] adds it to liked music.
//
// Calls POST /api/songs/{id}/rating on the proxy.
func (y *YouTubeService) RateSong(ctx context.Context, videoID string, rating models.Rating) error {
	if videoID == "" {
		return fmt.Errorf("%w: empty video id", shared.ErrInvalidInput)
	}
	body := struct {
		Rating models.Rating `json:"rating"`
	}{Rating: rating}

	endpoint := fmt.Sprintf("/api/songs/%s/rating", url.PathEscape(videoID))
	return y.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}

// LibraryPlaylists retrieves the playlists in the user's library.
//
// Calls GET /api/library/playlists?limit={n} on the proxy.
func (y *YouTubeService) LibraryPlaylists(ctx context.Context) ([]models.PlaylistSummary, error) {
	endpoint := "/api/library/playlists?limit=" + strconv.Itoa(y.playlistLimit)

	var playlists []models.PlaylistSummary
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// Playlist retrieves a playlist with its tracks.
//
// Calls GET /api/playlists/{id}?limit={n} on the proxy.
func (y *YouTubeService) Playlist(ctx context.Context, playlistID string) (*models.PlaylistSnapshot, error) {
	endpoint := fmt.Sprintf("/api/playlists/%s?limit=%d", url.PathEscape(playlistID), y.playlistTrackLimit)

	var playlist models.PlaylistSnapshot
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &playlist); err != nil {
		return nil, err
	}
	if playlist.ID == "" {
		playlist.ID = playlistID
	}
	return &playlist, nil
}

// AddPlaylistItems appends videoIDs to a playlist in one call.
//
// Calls POST /api/playlists/{id}/items on the proxy.
func (y *YouTubeService) AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string) error {
	if len(videoIDs) == 0 {
		return nil
	}
	body := struct {
		VideoIDs []string `json:"video_ids"`
	}{VideoIDs: videoIDs}

	endpoint := fmt.Sprintf("/api/playlists/%s/items", url.PathEscape(playlistID))
	return y.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}
