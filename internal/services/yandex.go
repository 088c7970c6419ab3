// Yandex Music API [Service] implementation
//
// Yandex Music response types follow the unofficial API at https://api.music.yandex.net
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

const (
	defaultYandexBaseURL = "https://api.music.yandex.net"
	yandexAuthURL        = "https://oauth.yandex.ru/authorize"
	yandexTokenURL       = "https://oauth.yandex.ru/token"

	// YandexMusicClientID is the public client id of the official Yandex Music apps.
	YandexMusicClientID = "23cabbbdc6cd418abb4b39c32c41195d"
)

// YandexID is an identifier the API sends either as a number or as a string.
type YandexID string

func (id *YandexID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = YandexID(s)
		return nil
	}
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = YandexID(n.String())
	return nil
}

// YandexArtist is an artist inside a Yandex track.
type YandexArtist struct {
	ID   YandexID `json:"id"`
	Name string   `json:"name"`
}

// YandexTrack is a full Yandex track object.
type YandexTrack struct {
	ID        YandexID       `json:"id"`
	Title     string         `json:"title"`
	Available bool           `json:"available"`
	Artists   []YandexArtist `json:"artists"`
}

// YandexTrackShort is one entry of the likes feed.
type YandexTrackShort struct {
	ID        YandexID `json:"id"`
	AlbumID   YandexID `json:"albumId"`
	Timestamp string   `json:"timestamp"`
}

// YandexPlaylist is a user playlist; Kind identifies it within the owner's library.
type YandexPlaylist struct {
	Kind       int    `json:"kind"`
	Title      string `json:"title"`
	TrackCount int    `json:"trackCount"`
	Owner      struct {
		UID   int64  `json:"uid"`
		Login string `json:"login"`
	} `json:"owner"`
}

type yandexPlaylistTrack struct {
	ID    YandexID     `json:"id"`
	Track *YandexTrack `json:"track"`
}

// YandexService reads the liked tracks and playlists of a Yandex Music account.
type YandexService struct {
	baseURL    string
	httpClient *http.Client
	uid        int64
	logger     *log.Logger
}

// NewYandexService creates a new Yandex Music service instance.
func NewYandexService(baseURL string) *YandexService {
	if baseURL == "" {
		baseURL = defaultYandexBaseURL
	}
	return &YandexService{baseURL: baseURL, logger: shared.NewLogger(io.Discard)}
}

// SetLogger replaces the logger used for warnings about incomplete responses.
func (y *YandexService) SetLogger(logger *log.Logger) {
	y.logger = logger
}

// YandexAuthURL returns the implicit grant URL that shows the user an access token after login.
func YandexAuthURL(clientID string) string {
	if clientID == "" {
		clientID = YandexMusicClientID
	}
	config := &oauth2.Config{
		ClientID: clientID,
		Endpoint: oauth2.Endpoint{AuthURL: yandexAuthURL, TokenURL: yandexTokenURL},
	}
	return config.AuthCodeURL("", oauth2.SetAuthURLParam("response_type", "token"))
}

// Name returns the service name.
func (y *YandexService) Name() string {
	return "Yandex Music"
}

// Authenticate builds an HTTP client that sends "Authorization: OAuth <token>".
//
// Expects credentials["token"] to contain a Yandex OAuth access token.
func (y *YandexService) Authenticate(ctx context.Context, credentials map[string]string) error {
	token, ok := credentials["token"]
	if !ok || token == "" {
		return fmt.Errorf("%w: missing token in credentials", shared.ErrMissingCredentials)
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "OAuth"})
	y.httpClient = oauth2.NewClient(ctx, src)
	y.uid = 0
	return nil
}

func (y *YandexService) doRequest(ctx context.Context, endpoint string, result any) error {
	if y.httpClient == nil {
		return shared.ErrNotAuthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return transportError(y.Name(), err)
	}
	defer resp.Body.Close()

	envelope := struct {
		Result any `json:"result"`
	}{Result: result}
	return decodeResponse(y.Name(), resp, &envelope, yandexErrorDetail)
}

func yandexErrorDetail(body []byte) string {
	var errResp struct {
		Error struct {
			Name    string `json:"name"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	if errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return errResp.Error.Name
}

// AccountUID returns the uid of the authenticated account, cached after the first call.
//
// Calls GET /account/status.
func (y *YandexService) AccountUID(ctx context.Context) (int64, error) {
	if y.uid != 0 {
		return y.uid, nil
	}

	var status struct {
		Account struct {
			UID   int64  `json:"uid"`
			Login string `json:"login"`
		} `json:"account"`
	}
	if err := y.doRequest(ctx, "/account/status", &status); err != nil {
		return 0, err
	}
	if status.Account.UID == 0 {
		return 0, fmt.Errorf("%w: account has no uid, token may be invalid", shared.ErrAuthFailed)
	}

	y.uid = status.Account.UID
	return y.uid, nil
}

// LikedTracks returns the likes feed, newest first.
//
// Calls GET /users/{uid}/likes/tracks.
func (y *YandexService) LikedTracks(ctx context.Context) ([]models.SourceTrackRef, error) {
	uid, err := y.AccountUID(ctx)
	if err != nil {
		return nil, err
	}

	var likes struct {
		Library struct {
			Tracks []YandexTrackShort `json:"tracks"`
		} `json:"library"`
	}
	if err := y.doRequest(ctx, fmt.Sprintf("/users/%d/likes/tracks", uid), &likes); err != nil {
		return nil, err
	}

	refs := make([]models.SourceTrackRef, len(likes.Library.Tracks))
	for i, t := range likes.Library.Tracks {
		refs[i] = models.SourceTrackRef{ID: string(t.ID), AlbumID: string(t.AlbumID), Timestamp: t.Timestamp}
	}
	return refs, nil
}

// ResolveTrack fetches the full metadata behind a likes feed entry.
//
// Calls GET /tracks/{id}[:albumId].
func (y *YandexService) ResolveTrack(ctx context.Context, ref models.SourceTrackRef) (*models.SourceTrack, error) {
	if ref.ID == "" {
		return nil, fmt.Errorf("%w: track reference has no id", shared.ErrInvalidInput)
	}

	id := ref.ID
	if ref.AlbumID != "" {
		id += ":" + ref.AlbumID
	}

	var tracks []YandexTrack
	if err := y.doRequest(ctx, "/tracks/"+url.PathEscape(id), &tracks); err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}

	t := tracks[0]
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}
	return &models.SourceTrack{ID: string(t.ID), Title: t.Title, Artists: artists}, nil
}

// Playlists lists the playlists owned by the account.
//
// Calls GET /users/{uid}/playlists/list.
func (y *YandexService) Playlists(ctx context.Context) ([]YandexPlaylist, error) {
	uid, err := y.AccountUID(ctx)
	if err != nil {
		return nil, err
	}

	var playlists []YandexPlaylist
	if err := y.doRequest(ctx, fmt.Sprintf("/users/%d/playlists/list", uid), &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// PlaylistArtists returns the sorted set of artist names in the playlist identified by kind.
//
// Calls GET /users/{uid}/playlists/{kind}.
func (y *YandexService) PlaylistArtists(ctx context.Context, kind int) ([]string, error) {
	uid, err := y.AccountUID(ctx)
	if err != nil {
		return nil, err
	}

	var playlist struct {
		Kind   int                   `json:"kind"`
		Tracks []yandexPlaylistTrack `json:"tracks"`
	}
	endpoint := fmt.Sprintf("/users/%d/playlists/%s", uid, strconv.Itoa(kind))
	if err := y.doRequest(ctx, endpoint, &playlist); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	resolved := 0
	for _, entry := range playlist.Tracks {
		if entry.Track == nil {
			continue
		}
		resolved++
		for _, a := range entry.Track.Artists {
			if a.Name != "" {
				seen[a.Name] = struct{}{}
			}
		}
	}

	if resolved == 0 && len(playlist.Tracks) > 0 {
		y.logger.Warn("playlist entries carry no track objects, artists unknown", "kind", kind, "entries", len(playlist.Tracks))
	}

	artists := make([]string, 0, len(seen))
	for name := range seen {
		artists = append(artists, name)
	}
	sort.Strings(artists)
	return artists, nil
}
