// Package services implements HTTP clients for the source (Yandex Music) and target (YouTube Music) catalogs.
//
// # Service Interface
//
// Both clients implement [Service]. Their catalog methods line up with the
// SourceCatalog and TargetCatalog interfaces consumed by the tasks package,
// which never imports this package.
//
// # Yandex Music Implementation
//
// [YandexService] sends "Authorization: OAuth <token>" through an [oauth2] static
// token source. The account uid is looked up once via /account/status and reused
// for the likes feed and playlist endpoints. [YandexAuthURL] builds the implicit
// grant URL used by "ymx setup yandex".
//
// # YouTube Music Implementation
//
// [YouTubeService] communicates with the FastAPI proxy server (music/) wrapping ytmusicapi.
//
// The proxy handles YouTube Music authentication complexities.
// The auth_file path is sent via X-Auth-File header on each request.
// Requests are paced with a [rate.Limiter] configured from [limits] requests_per_second.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrAuthFailed] : 401/403 or an anonymous account
//   - [shared.ErrServiceUnavailable] : proxy unreachable or 502/503/504
//   - [shared.ErrAPIRequest] : any other failed request
//   - [shared.ErrTrackNotFound] : track lookup returned nothing
package services
