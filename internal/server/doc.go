// Package server exposes playlist building and export over HTTP.
//
// # Routes
//
//	POST /playlist                 build a playlist from {"genero", "artistas"}
//	POST /create-yt-playlist       export an assembled playlist to YouTube Music
//	POST /create-spotify-playlist  export an assembled playlist to Spotify
//	GET  /health                   liveness and configured backends
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [Middleware] wraps handlers in
// reverse order (last added executes first). [BasicRouter] uses [http.ServeMux] internally with method
// filtering.
//
// Every route runs behind request-id, logging, panic recovery and CORS middleware.
//
// # Status Mapping
//
// Build requests answer 400 on malformed input and 500 (with the full playlist body) when the track
// source is not configured. Export requests answer 400 without tracks, 404 when no track resolves and
// 500 for authentication or creation failures. Error bodies never include upstream details.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback used by the CLI's Spotify login.
// It validates the state parameter, exchanges the code and delivers a single result on a channel.
package server
