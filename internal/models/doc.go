// Package models defines the domain entities shared by the library reconciliation engine, the service clients and the CLI.
//
// The package contains two categories of types:
//
// 1. Transient values built per invocation from live API responses:
//   - [Track] : the (artist, name) pair used for matching across services
//   - [SourceTrackRef], [SourceTrack] : liked-feed handles and resolved metadata from the source catalog
//   - [SearchResult] : one candidate returned by the target catalog's search
//   - [PlaylistSummary], [PlaylistSnapshot], [PlaylistEntry] : target catalog playlists
//   - [ArtistPlaylistMap] : the user-authored artist to playlist mapping
//   - [TransferOutcome], [ItemResult] : classification of a like transfer
//
// 2. Persistent entities implementing [Model]:
//   - [TransferRun] : a recorded transfer with its per-track results
//
// None of the transient values is cached across process runs.
package models
