// Package server implements a Thing host: a small server that serves
// Thing Descriptions the way real WoT devices and directories do, so
// discovery clients have something to discover.
//
// The host keeps a catalog of validated descriptions and exposes them
// three ways:
//
//   - GET /.well-known/core — a CoRE link-format discovery document
//     with one link per description (rt="wot.thing", ct=432). An rt
//     query filters the listing.
//   - GET /things/{name} — one description as application/td+json.
//   - GET /ws/things — a WebSocket stream delivering every hosted
//     description as one text message each, then a normal close.
//
// # TLS
//
// The host serves plain HTTP by default. With certificate files it
// serves HTTPS; with GenerateCert it creates an in-memory self-signed
// certificate instead, which mirrors how local Things present
// themselves in practice.
//
// # mDNS announcement
//
// With Announce enabled every hosted Thing is registered as a
// _wot._tcp service instance whose td TXT record carries its /things/
// path. Introducers on the same network turn those advertisements
// into direct-discovery targets.
//
// # Usage Example
//
//	// Create server configuration
//	config := &server.Config{
//	    Host:     "",     // Listen on all interfaces
//	    Port:     8080,
//	    ThingDir: "./things",
//	    Announce: true,
//	    LogLevel: "info",
//	}
//
//	// Create and start server
//	srv, err := server.New(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start blocks until shutdown signal or error
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// The server handles SIGINT and SIGTERM: mDNS registrations are
// withdrawn, the listener stops accepting connections, and in-flight
// requests get a grace period before the process exits.
package server
