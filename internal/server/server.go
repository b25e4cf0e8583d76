package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/wotscout/wotscout/internal/content"
	"github.com/wotscout/wotscout/internal/discovery"
	"github.com/wotscout/wotscout/internal/logging"
)

// Config holds the server configuration
type Config struct {
	Host         string
	Port         int
	CertPath     string // Path to certificate file (optional)
	KeyPath      string // Path to private key file (optional)
	GenerateCert bool   // If true, serve TLS with an in-memory self-signed certificate
	LogLevel     string
	ThingDir     string // Directory of .json Thing Descriptions to host (empty = none)
	Announce     bool   // If true, advertise each hosted Thing over mDNS
}

// Server hosts a catalog of Thing Descriptions so discovery clients
// have something to find: a link-format discovery document, one HTTP
// resource per description, and a WebSocket stream of the whole
// catalog.
type Server struct {
	config    *Config
	catalog   *Catalog
	codecs    *content.Registry
	tlsConfig *tls.Config

	mu         sync.Mutex
	listener   net.Listener
	httpServer *http.Server
	announcers []*zeroconf.Server
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	// Initialize logging
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	var tlsConfig *tls.Config
	var err error

	switch {
	case config.GenerateCert:
		logging.Info("Generating self-signed server certificate")
		tlsConfig, err = SelfSignedTLSConfig(config.Host)
		if err != nil {
			return nil, fmt.Errorf("failed to generate certificate: %w", err)
		}
		logging.Info("Using self-signed certificate (in-memory)")
	case config.CertPath != "":
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	s := &Server{
		config:    config,
		catalog:   NewCatalog(),
		codecs:    content.DefaultRegistry(),
		tlsConfig: tlsConfig,
	}

	if config.ThingDir != "" {
		if err := s.catalog.LoadDir(config.ThingDir); err != nil {
			return nil, err
		}
		logging.Info("Loaded thing descriptions",
			zap.String("dir", config.ThingDir),
			zap.Int("count", s.catalog.Len()),
		)
	}

	return s, nil
}

// Catalog returns the set of hosted Thing Descriptions
func (s *Server) Catalog() *Catalog {
	return s.catalog
}

// Scheme returns the URI scheme the server serves under
func (s *Server) Scheme() string {
	if s.tlsConfig != nil {
		return "https"
	}
	return "http"
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	logging.Info("Starting Thing host",
		zap.String("addr", addr),
		zap.String("scheme", s.Scheme()),
		zap.Int("things", s.catalog.Len()),
		zap.String("log_level", s.config.LogLevel),
	)
	if s.tlsConfig != nil {
		logging.Info("TLS Configuration",
			zap.Any("tls_info", GetTLSInfo(s.tlsConfig)),
		)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}

	s.mu.Lock()
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	logging.Info("Server listening for connections",
		zap.String("addr", listener.Addr().String()),
	)

	if s.config.Announce {
		if err := s.announce(listener.Addr()); err != nil {
			logging.Warn("mDNS announcement failed", zap.Error(err))
		}
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// announce advertises every hosted Thing over mDNS so introducers can
// turn the advertisements into direct-discovery targets.
func (s *Server) announce(addr net.Addr) error {
	port := s.config.Port
	if tcpAddr, ok := addr.(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range s.catalog.Names() {
		txt := []string{
			"td=/things/" + name,
			"scheme=" + s.Scheme(),
		}
		announcer, err := zeroconf.Register(name, discovery.ServiceType, discovery.ServiceDomain, port, txt, nil)
		if err != nil {
			return fmt.Errorf("failed to announce %q: %w", name, err)
		}
		s.announcers = append(s.announcers, announcer)
		logging.Info("Announced thing over mDNS",
			zap.String("instance", name),
			zap.String("service", discovery.ServiceType),
			zap.Int("port", port),
		)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.mu.Lock()
	announcers := s.announcers
	s.announcers = nil
	httpServer := s.httpServer
	s.mu.Unlock()

	for _, announcer := range announcers {
		announcer.Shutdown()
	}

	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
			_ = httpServer.Close()
		}
	}

	logging.Info("Server stopped")
	logging.Sync()
	return nil
}

// Addr returns the bound listener address, or empty before Start
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
