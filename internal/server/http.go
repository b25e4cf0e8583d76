package server

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/wotscout/wotscout/internal/corelink"
	"github.com/wotscout/wotscout/internal/logging"
)

// Handler builds the route table:
//
//	GET /.well-known/core  link-format discovery document
//	GET /things/{name}     one Thing Description
//	GET /ws/things         WebSocket stream of every description
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/core", s.handleWellKnownCore)
	mux.HandleFunc("/things/", s.handleThing)
	mux.HandleFunc("/ws/things", s.handleThingStream)
	return mux
}

// handleWellKnownCore serves the discovery document. An rt query
// filters the listing the way a resource directory would; hosted
// descriptions all carry rt="wot.thing", so any other value yields an
// empty document.
func (s *Server) handleWellKnownCore(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	links := s.catalog.Links()
	if rt := r.URL.Query().Get("rt"); rt != "" {
		filtered := make([]corelink.Link, 0, len(links))
		for _, link := range links {
			if link.HasResourceType(rt) {
				filtered = append(filtered, link)
			}
		}
		links = filtered
	}

	document, err := s.codecs.Encode(LinkFormatMediaType, links)
	if err != nil {
		logging.Error("Failed to encode discovery document", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", LinkFormatMediaType)
	if _, err := w.Write(document.Data); err != nil {
		logging.Warn("Failed to write discovery document", zap.Error(err))
	}
}

// handleThing serves one hosted description as application/td+json
func (s *Server) handleThing(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/things/")
	if name == "" || strings.Contains(name, "/") {
		http.NotFound(w, r)
		return
	}

	payload, ok := s.catalog.Get(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", ThingMediaType)
	if _, err := w.Write(payload); err != nil {
		logging.Warn("Failed to write thing description",
			zap.String("thing", name),
			zap.Error(err),
		)
	}
}

// logRequest logs an incoming request with its headers
func logRequest(r *http.Request) {
	headers := make(map[string]string)
	for key, values := range r.Header {
		headers[key] = strings.Join(values, ", ")
	}
	logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, headers)
}
