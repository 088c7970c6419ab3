package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
)

func newYandexTestServer(t *testing.T, routes map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "OAuth test-token" {
			t.Errorf("expected Authorization header 'OAuth test-token', got %q", got)
		}

		result, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"name": "not-found", "message": "Resource not found"},
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"result": result})
	}))
}

func authenticatedYandex(t *testing.T, baseURL string) *YandexService {
	t.Helper()
	svc := NewYandexService(baseURL)
	if err := svc.Authenticate(context.Background(), map[string]string{"token": "test-token"}); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	return svc
}

func TestYandexService(t *testing.T) {
	account := map[string]any{"account": map[string]any{"uid": 42, "login": "listener"}}

	t.Run("NewYandexService", func(t *testing.T) {
		if svc := NewYandexService(""); svc.baseURL != defaultYandexBaseURL {
			t.Errorf("expected baseURL to be %s, got %s", defaultYandexBaseURL, svc.baseURL)
		}
		if svc := NewYandexService(""); svc.Name() != "Yandex Music" {
			t.Errorf("unexpected name %s", svc.Name())
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		svc := NewYandexService("")
		err := svc.Authenticate(context.Background(), map[string]string{})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("requests fail before Authenticate", func(t *testing.T) {
		svc := NewYandexService("http://127.0.0.1:0")
		if _, err := svc.LikedTracks(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("LikedTracks", func(t *testing.T) {
		server := newYandexTestServer(t, map[string]any{
			"/account/status": account,
			"/users/42/likes/tracks": map[string]any{
				"library": map[string]any{
					"uid": 42,
					"tracks": []map[string]any{
						{"id": "101", "albumId": "9", "timestamp": "2024-03-01T10:00:00+00:00"},
						{"id": 102, "albumId": 9, "timestamp": "2023-01-01T10:00:00+00:00"},
					},
				},
			},
		})
		defer server.Close()

		svc := authenticatedYandex(t, server.URL)
		refs, err := svc.LikedTracks(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []models.SourceTrackRef{
			{ID: "101", AlbumID: "9", Timestamp: "2024-03-01T10:00:00+00:00"},
			{ID: "102", AlbumID: "9", Timestamp: "2023-01-01T10:00:00+00:00"},
		}
		if len(refs) != len(want) {
			t.Fatalf("expected %d refs, got %d", len(want), len(refs))
		}
		for i := range want {
			if refs[i] != want[i] {
				t.Errorf("ref %d: expected %+v, got %+v", i, want[i], refs[i])
			}
		}
	})

	t.Run("AccountUID is cached", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/account/status" {
				calls++
			}
			json.NewEncoder(w).Encode(map[string]any{"result": account})
		}))
		defer server.Close()

		svc := authenticatedYandex(t, server.URL)
		for range 3 {
			uid, err := svc.AccountUID(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if uid != 42 {
				t.Errorf("expected uid 42, got %d", uid)
			}
		}
		if calls != 1 {
			t.Errorf("expected one status call, got %d", calls)
		}
	})

	t.Run("AccountUID rejects anonymous account", func(t *testing.T) {
		server := newYandexTestServer(t, map[string]any{
			"/account/status": map[string]any{"account": map[string]any{}},
		})
		defer server.Close()

		svc := authenticatedYandex(t, server.URL)
		if _, err := svc.AccountUID(context.Background()); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("ResolveTrack", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			json.NewEncoder(w).Encode(map[string]any{"result": []map[string]any{{
				"id":      101,
				"title":   "Песня",
				"artists": []map[string]any{{"id": 1, "name": "Кино"}, {"id": 2, "name": "Guest"}},
			}}})
		}))
		defer server.Close()

		svc := authenticatedYandex(t, server.URL)
		track, err := svc.ResolveTrack(context.Background(), models.SourceTrackRef{ID: "101", AlbumID: "9"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if unescaped, _ := url.PathUnescape(gotPath); unescaped != "/tracks/101:9" {
			t.Errorf("expected path /tracks/101:9, got %s", gotPath)
		}
		if track.ID != "101" || track.Title != "Песня" {
			t.Errorf("unexpected track %+v", track)
		}
		if got := track.Track(); got.Artist != "Кино" {
			t.Errorf("expected first artist Кино, got %s", got.Artist)
		}
	})

	t.Run("ResolveTrack without artists", func(t *testing.T) {
		server := newYandexTestServer(t, map[string]any{
			"/tracks/7": []map[string]any{{"id": "7", "title": "Untitled", "artists": []any{}}},
		})
		defer server.Close()

		svc := authenticatedYandex(t, server.URL)
		track, err := svc.ResolveTrack(context.Background(), models.SourceTrackRef{ID: "7"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := track.Track(); got.Artist != models.UnknownArtist {
			t.Errorf("expected %s, got %s", models.UnknownArtist, got.Artist)
		}
	})

	t.Run("ResolveTrack errors", func(t *testing.T) {
		server := newYandexTestServer(t, map[string]any{
			"/tracks/8": []map[string]any{},
		})
		defer server.Close()

		svc := authenticatedYandex(t, server.URL)

		tt := []struct {
			name    string
			ref     models.SourceTrackRef
			wantErr error
		}{
			{name: "empty id", ref: models.SourceTrackRef{}, wantErr: shared.ErrInvalidInput},
			{name: "empty result", ref: models.SourceTrackRef{ID: "8"}, wantErr: shared.ErrTrackNotFound},
			{name: "api error", ref: models.SourceTrackRef{ID: "9"}, wantErr: shared.ErrAPIRequest},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.ResolveTrack(context.Background(), tc.ref)
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("expected %v, got %v", tc.wantErr, err)
				}
			})
		}
	})

	t.Run("error message from body", func(t *testing.T) {
		server := newYandexTestServer(t, map[string]any{"/account/status": account})
		defer server.Close()

		svc := authenticatedYandex(t, server.URL)
		_, err := svc.ResolveTrack(context.Background(), models.SourceTrackRef{ID: "404"})
		if err == nil || !strings.Contains(err.Error(), "Resource not found") {
			t.Errorf("expected API message in error, got %v", err)
		}
	})

	t.Run("unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		svc := authenticatedYandex(t, server.URL)
		if _, err := svc.AccountUID(context.Background()); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("Playlists and PlaylistArtists", func(t *testing.T) {
		server := newYandexTestServer(t, map[string]any{
			"/account/status": account,
			"/users/42/playlists/list": []map[string]any{
				{"kind": 3, "title": "Rock", "trackCount": 2},
				{"kind": 1000, "title": "Chill", "trackCount": 0},
			},
			"/users/42/playlists/3": map[string]any{
				"kind": 3,
				"tracks": []map[string]any{
					{"id": 1, "track": map[string]any{"id": 1, "title": "A", "artists": []map[string]any{{"name": "Zeta"}, {"name": "Alpha"}}}},
					{"id": 2, "track": map[string]any{"id": 2, "title": "B", "artists": []map[string]any{{"name": "Alpha"}}}},
					{"id": 3},
				},
			},
		})
		defer server.Close()

		svc := authenticatedYandex(t, server.URL)
		playlists, err := svc.Playlists(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlists) != 2 || playlists[0].Kind != 3 || playlists[1].Title != "Chill" {
			t.Fatalf("unexpected playlists %+v", playlists)
		}

		artists, err := svc.PlaylistArtists(context.Background(), 3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.Join(artists, ",") != "Alpha,Zeta" {
			t.Errorf("expected sorted unique artists, got %v", artists)
		}
	})

	t.Run("PlaylistArtists warns when no entry has a track", func(t *testing.T) {
		server := newYandexTestServer(t, map[string]any{
			"/account/status": account,
			"/users/42/playlists/7": map[string]any{
				"kind":   7,
				"tracks": []map[string]any{{"id": 1}, {"id": 2}},
			},
			"/users/42/playlists/8": map[string]any{"kind": 8, "tracks": []map[string]any{}},
		})
		defer server.Close()

		var buf bytes.Buffer
		svc := authenticatedYandex(t, server.URL)
		svc.SetLogger(shared.NewLogger(&buf))

		artists, err := svc.PlaylistArtists(context.Background(), 7)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(artists) != 0 {
			t.Errorf("expected no artists, got %v", artists)
		}
		if !strings.Contains(buf.String(), "carry no track objects") {
			t.Errorf("expected warning in log, got %q", buf.String())
		}

		buf.Reset()
		if _, err := svc.PlaylistArtists(context.Background(), 8); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no warning for an empty playlist, got %q", buf.String())
		}
	})

	t.Run("YandexAuthURL", func(t *testing.T) {
		u, err := url.Parse(YandexAuthURL(""))
		if err != nil {
			t.Fatalf("invalid url: %v", err)
		}
		q := u.Query()
		if q.Get("response_type") != "token" {
			t.Errorf("expected response_type=token, got %s", q.Get("response_type"))
		}
		if q.Get("client_id") != YandexMusicClientID {
			t.Errorf("expected default client id, got %s", q.Get("client_id"))
		}
		if u.Host != "oauth.yandex.ru" {
			t.Errorf("unexpected host %s", u.Host)
		}
	})
}

func TestYandexID(t *testing.T) {
	tt := []struct {
		input string
		want  YandexID
	}{
		{`"123"`, "123"},
		{`456`, "456"},
		{`"a1b2-c3"`, "a1b2-c3"},
		{`null`, ""},
	}

	for _, tc := range tt {
		t.Run(tc.input, func(t *testing.T) {
			var id YandexID
			if err := json.Unmarshal([]byte(tc.input), &id); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tc.want {
				t.Errorf("expected %q, got %q", tc.want, id)
			}
		})
	}
}
