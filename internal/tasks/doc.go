// Package tasks builds AI-titled playlists and exports them to streaming platforms.
//
// # Building
//
// [Builder.Build] runs one playlist request end to end:
//
//  1. [CreativeGenerator.Generate] asks the generative backend for a title and description.
//     It never fails: any problem yields a templated fallback with an advisory.
//  2. [Collector.Collect] fetches top tracks per artist concurrently, turning per-artist
//     failures into advisories instead of errors.
//  3. [Assembler.Assemble] merges both results, shuffles the tracks and caps them.
//
// The two upstream calls run concurrently. A [BuildResult] carries a [Status] that tells the
// transport layer whether the result is complete, degraded or empty.
//
// # Exporting
//
// [Exporter.Export] creates a playlist on a [services.Platform]. Each step moves through a
// [Phase] and is reported on an optional progress channel.
//
// # Progress Reporting
//
// Progress channels are written with select/default so a slow or absent reader never blocks
// an export.
package tasks
