package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
)

func TestYouTubeService(t *testing.T) {
	t.Run("NewYouTubeService", func(t *testing.T) {
		t.Run("creates service with default URL", func(t *testing.T) {
			if svc := NewYouTubeService(""); svc == nil {
				t.Fatal("expected service to be created")
			} else if svc.baseURL != defaultYTBaseURL {
				t.Errorf("expected baseURL to be %s, got %s", defaultYTBaseURL, svc.baseURL)
			}
		})

		t.Run("creates service with custom URL", func(t *testing.T) {
			customURL := "http://localhost:9000"
			if svc := NewYouTubeService(customURL); svc.baseURL != customURL {
				t.Errorf("expected baseURL to be %s, got %s", customURL, svc.baseURL)
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if svc := NewYouTubeService(""); svc.Name() != "YouTube Music" {
			t.Errorf("expected name to be 'YouTube Music', got %s", svc.Name())
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		svc := NewYouTubeService("")
		ctx := context.Background()

		t.Run("authenticates with auth_file", func(t *testing.T) {
			credentials := map[string]string{"auth_file": "/path/to/browser.json"}
			if err := svc.Authenticate(ctx, credentials); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.authFile != credentials["auth_file"] {
				t.Errorf("expected authFile to be %s, got %s", credentials["auth_file"], svc.authFile)
			}
		})

		t.Run("fails without auth_file", func(t *testing.T) {
			err := svc.Authenticate(ctx, map[string]string{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Fatalf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/search" {
				t.Errorf("expected path /api/search, got %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("q"); got != "Кино Группа крови" {
				t.Errorf("expected query to be decoded, got %q", got)
			}
			if got := r.URL.Query().Get("filter"); got != models.SongsFilter {
				t.Errorf("expected filter songs, got %q", got)
			}
			if r.Header.Get("X-Auth-File") != "browser.json" {
				t.Errorf("expected X-Auth-File header")
			}

			json.NewEncoder(w).Encode([]map[string]any{
				{"category": "Top result", "resultType": "song", "videoId": "v1", "title": "Группа крови", "artists": []map[string]string{{"name": "Кино", "id": "a1"}}},
				{"category": "Songs", "resultType": "song", "title": "No id"},
			})
		}))
		defer server.Close()

		svc := NewYouTubeService(server.URL)
		svc.authFile = "browser.json"

		results, err := svc.Search(context.Background(), "Кино Группа крови", models.SongsFilter)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if !results[0].IsTopResult() || results[0].VideoID != "v1" {
			t.Errorf("unexpected first result %+v", results[0])
		}
		if results[1].HasTrackID() {
			t.Error("expected second result to lack a track id")
		}
		if names := results[0].ArtistNames(); len(names) != 1 || names[0] != "Кино" {
			t.Errorf("unexpected artists %v", names)
		}
	})

	t.Run("RateSong", func(t *testing.T) {
		var gotRating string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.URL.Path != "/api/songs/v1/rating" {
				t.Errorf("expected path /api/songs/v1/rating, got %s", r.URL.Path)
			}
			var body struct {
				Rating string `json:"rating"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			gotRating = body.Rating
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		svc := NewYouTubeService(server.URL)
		if err := svc.RateSong(context.Background(), "v1", models.RatingLike); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotRating != "LIKE" {
			t.Errorf("expected rating LIKE, got %s", gotRating)
		}

		if err := svc.RateSong(context.Background(), "", models.RatingLike); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty id, got %v", err)
		}
	})

	t.Run("LibraryPlaylists", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/library/playlists" {
				t.Errorf("expected path /api/library/playlists, got %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("limit"); got != "25" {
				t.Errorf("expected limit 25, got %s", got)
			}
			json.NewEncoder(w).Encode([]map[string]any{
				{"playlistId": "LM", "title": "Liked Music", "count": 120},
				{"playlistId": "PL1", "title": "Rock", "count": 10},
			})
		}))
		defer server.Close()

		svc := NewYouTubeService(server.URL)
		svc.SetLimits(25, 0)

		playlists, err := svc.LibraryPlaylists(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlists) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(playlists))
		}
		if playlists[0].ID != models.LikedSongsPlaylistID || playlists[1].Title != "Rock" || playlists[1].Count != 10 {
			t.Errorf("unexpected playlists %+v", playlists)
		}
	})

	t.Run("Playlist", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/playlists/PL1" {
				t.Errorf("expected path /api/playlists/PL1, got %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("limit"); got != "5000" {
				t.Errorf("expected default track limit 5000, got %s", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"id":    "PL1",
				"title": "Rock",
				"tracks": []map[string]any{
					{"videoId": "v1", "title": "Song", "artists": []map[string]string{{"name": "Band"}}},
				},
			})
		}))
		defer server.Close()

		svc := NewYouTubeService(server.URL)
		playlist, err := svc.Playlist(context.Background(), "PL1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.Title != "Rock" || len(playlist.Tracks) != 1 {
			t.Fatalf("unexpected playlist %+v", playlist)
		}
		if artist, ok := playlist.Tracks[0].PrimaryArtist(); !ok || artist != "Band" {
			t.Errorf("expected primary artist Band, got %q", artist)
		}
	})

	t.Run("Playlist fills missing id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"title": "Liked Music", "tracks": []any{}})
		}))
		defer server.Close()

		playlist, err := NewYouTubeService(server.URL).Playlist(context.Background(), "LM")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.ID != "LM" {
			t.Errorf("expected id LM, got %s", playlist.ID)
		}
	})

	t.Run("AddPlaylistItems", func(t *testing.T) {
		calls := 0
		var got []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if r.URL.Path != "/api/playlists/PL1/items" {
				t.Errorf("expected path /api/playlists/PL1/items, got %s", r.URL.Path)
			}
			var body struct {
				VideoIDs []string `json:"video_ids"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			got = body.VideoIDs
		}))
		defer server.Close()

		svc := NewYouTubeService(server.URL)
		if err := svc.AddPlaylistItems(context.Background(), "PL1", []string{"v1", "v2"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 2 || got[0] != "v1" || got[1] != "v2" {
			t.Errorf("unexpected video ids %v", got)
		}

		if err := svc.AddPlaylistItems(context.Background(), "PL1", nil); err != nil {
			t.Fatalf("expected no error for empty batch, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected empty batch to skip the request, got %d calls", calls)
		}
	})

	t.Run("error responses", func(t *testing.T) {
		tt := []struct {
			name    string
			status  int
			body    string
			wantErr error
		}{
			{name: "detail", status: http.StatusInternalServerError, body: `{"detail":"boom"}`, wantErr: shared.ErrAPIRequest},
			{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, wantErr: shared.ErrAuthFailed},
			{name: "unavailable", status: http.StatusServiceUnavailable, body: ``, wantErr: shared.ErrServiceUnavailable},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tc.status)
					w.Write([]byte(tc.body))
				}))
				defer server.Close()

				_, err := NewYouTubeService(server.URL).Search(context.Background(), "q", models.SongsFilter)
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("expected %v, got %v", tc.wantErr, err)
				}
			})
		}
	})

	t.Run("unreachable proxy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		err := NewYouTubeService(url).Health(context.Background())
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Health", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/health" {
				t.Errorf("expected path /health, got %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		}))
		defer server.Close()

		if err := NewYouTubeService(server.URL).Health(context.Background()); err != nil {
			t.Errorf("expected healthy proxy, got %v", err)
		}
	})

	t.Run("SetupAuth", func(t *testing.T) {
		var body struct {
			HeadersRaw string `json:"headers_raw"`
			Filepath   string `json:"filepath"`
		}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/setup" || r.Method != http.MethodPost {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			json.NewDecoder(r.Body).Decode(&body)
		}))
		defer server.Close()

		svc := NewYouTubeService(server.URL)
		if err := svc.SetupAuth(context.Background(), "cookie: SID=abc", "browser.json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if body.HeadersRaw != "cookie: SID=abc" || body.Filepath != "browser.json" {
			t.Errorf("unexpected body %+v", body)
		}
		if svc.authFile != "browser.json" {
			t.Errorf("expected auth file to be stored, got %q", svc.authFile)
		}
	})

	t.Run("SetProxy routes requests through the proxy", func(t *testing.T) {
		var hosts []string
		proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hosts = append(hosts, r.Host)
			json.NewEncoder(w).Encode([]any{})
		}))
		defer proxy.Close()

		svc := NewYouTubeService("http://ytmusic.test:8080")
		if err := svc.SetProxy(proxy.URL); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := svc.Search(context.Background(), "query", models.SongsFilter); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(hosts) != 1 || hosts[0] != "ytmusic.test:8080" {
			t.Errorf("expected request for ytmusic.test:8080 via proxy, got %v", hosts)
		}
	})

	t.Run("SetProxy", func(t *testing.T) {
		tt := []struct {
			name    string
			raw     string
			wantErr bool
		}{
			{name: "empty keeps default client", raw: ""},
			{name: "socks5", raw: "socks5://127.0.0.1:1080"},
			{name: "https", raw: "https://proxy.example:3128"},
			{name: "unsupported scheme", raw: "ftp://proxy.example", wantErr: true},
			{name: "missing host", raw: "http://", wantErr: true},
			{name: "unparseable", raw: "http://[::1", wantErr: true},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				svc := NewYouTubeService("")
				err := svc.SetProxy(tc.raw)
				if tc.wantErr {
					if !errors.Is(err, shared.ErrInvalidConfig) {
						t.Errorf("expected ErrInvalidConfig, got %v", err)
					}
					return
				}
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if tc.raw == "" && svc.httpClient != http.DefaultClient {
					t.Error("expected default client")
				}
				if tc.raw != "" && svc.httpClient == http.DefaultClient {
					t.Error("expected a proxied client")
				}
			})
		}
	})

	t.Run("rate limit honours context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]any{})
		}))
		defer server.Close()

		svc := NewYouTubeService(server.URL)
		svc.SetRateLimit(0.001)

		if _, err := svc.Search(context.Background(), "first", ""); err != nil {
			t.Fatalf("first request should use the initial token: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		if _, err := svc.Search(ctx, "second", ""); err == nil {
			t.Error("expected second request to be blocked by the limiter")
		}
	})
}
