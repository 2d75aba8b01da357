// Package models defines the request-scoped data model of the mixtape playlist service.
//
// Every value here lives for a single request/response cycle; nothing is persisted.
//
//   - [PlaylistRequest] : genre and reference artists sent by the caller
//   - [CreativeContent] : generated (or fallback) title, description and advisory
//   - [Track] : a title/artist pair as returned by the track-metadata source
//   - [AssembledPlaylist] : creative content merged with the shuffled, capped track list
//   - [ExportRequest] / [ExportResult] : input and outcome of exporting to a streaming platform
//
// JSON field names follow the public HTTP contract (genero, artistas, titulo_playlist, ...),
// so the structs can be decoded from and encoded to request bodies directly.
package models
