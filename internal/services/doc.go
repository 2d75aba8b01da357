// Package services defines the interfaces the playlist pipeline consumes and implements them for real backends.
//
// # Generator
//
// [GeminiService] wraps the Google Gen AI SDK. Every call requests a single JSON object
// constrained by a response schema built from [GenerationRequest.Fields].
//
// # Track Source
//
// [LastFMService] calls artist.gettoptracks on the Last.fm 2.0 API. Unknown artists are reported as
// [shared.ErrArtistNotFound]; transport and status failures as [shared.ErrAPIRequest].
//
// # Platforms
//
// Export targets implement [Platform]. Authentication returns a [Session], so credentials are
// bound per export and no platform value carries request state.
//
//   - [YouTubeService] talks to the FastAPI proxy wrapping ytmusicapi. The auth file path is sent
//     via the X-Auth-File header on each request.
//   - [SpotifyService] uses [oauth2] tokens stored in config and the zmb3/spotify client.
//
// [APIService] makes raw requests to the proxy for health checks and browser-header setup.
package services
