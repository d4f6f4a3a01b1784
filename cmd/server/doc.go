// SPDX-License-Identifier: GPL-2.0-or-later

// Package main wires and runs the media-library server.
//
// # Architecture
//
// Startup order mirrors the component dependency chain:
//
//  1. Configuration: layered defaults -> YAML file -> APP_-prefixed
//     environment variables (internal/config), validated with
//     go-playground/validator.
//  2. Logging: zerolog initialized from the resolved config
//     (internal/logging).
//  3. Catalog store: the DuckDB-backed relational store is opened, its
//     schema brought up to date, and the DAAP collation/LIKE scalar
//     functions registered (internal/database).
//  4. Artwork cache: the content-addressed artwork store is opened
//     alongside its hot byte cache (internal/artwork).
//  5. Browse engine: a stateless enumerator over catalog worker handles
//     (internal/browse).
//  6. Update hub: the revision counter and waiter set backing the
//     long-poll/websocket `GET /update` endpoint (internal/eventwait).
//  7. External collaborators: the out-of-scope transcoder is reached
//     through a circuit breaker (internal/external); the scanner and
//     output subsystems are not wired here since nothing in this
//     repository's scope calls them directly yet.
//  8. Protocol handlers: the TLV and RSP dispatch tables are built and
//     mounted under a chi router carrying the standard middleware chain
//     (internal/api, internal/middleware).
//  9. HTTP server: serves until SIGINT/SIGTERM, then drains in-flight
//     requests before closing the catalog and artwork handles.
//
// # Configuration
//
// A config file path may be given as the first command-line argument; it
// is optional, and any key it sets can be overridden by an APP_-prefixed
// environment variable (e.g. APP_LIBRARY_PORT=3690).
package main
