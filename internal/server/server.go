// Package server exposes a provider to an editor over HTTP, with a
// websocket that signals when the task table should be fetched again.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/philjestin/buildsass/internal/config"
	"github.com/philjestin/buildsass/internal/provider"
	"github.com/philjestin/buildsass/internal/tlogger"
)

// RefreshMessage is written to websocket clients on each refresh.
const RefreshMessage = "refresh"

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Server struct {
	provider *provider.SassProvider
	broker   *Broker
	router   *mux.Router

	stopRefresh func()
	closeOnce   sync.Once
	closing     chan struct{}
}

// New serves p. Call Close to release the refresh subscription.
func New(p *provider.SassProvider) *Server {
	s := &Server{
		provider: p,
		broker:   newBroker(),
		closing:  make(chan struct{}),
	}
	s.stopRefresh = p.OnRefresh(s.broker.Publish)

	r := mux.NewRouter()
	r.HandleFunc("/provider", s.handleProvider).Methods(http.MethodGet)
	r.HandleFunc("/settings", s.handleSettings).Methods(http.MethodGet)
	r.HandleFunc("/eligible", s.handleEligible).Methods(http.MethodGet)
	r.HandleFunc("/schema", s.handleSchema).Methods(http.MethodGet)
	r.HandleFunc("/refresh", s.handleRefresh)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Broker returns the refresh broker.
func (s *Server) Broker() *Broker {
	return s.broker
}

// Close stops refresh delivery and ends open websocket sessions.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.stopRefresh()
		close(s.closing)
	})
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tlogger.Info("msg", "listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tlogger.Warn("msg", "encode response", "err", err)
	}
}

func (s *Server) handleProvider(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		Name string `json:"name"`
		Cwd  string `json:"cwd"`
	}{Name: s.provider.NiceName(), Cwd: s.provider.Cwd()})
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.provider.Settings())
}

func (s *Server) handleEligible(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		Eligible bool `json:"eligible"`
	}{Eligible: s.provider.IsEligible(r.Context())})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, config.Schema())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	// subscribe before the handshake completes so no refresh is missed
	sub := s.broker.Subscribe()
	defer s.broker.Unsubscribe(sub)

	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		tlogger.Warn("msg", "websocket upgrade", "err", err)
		return
	}
	defer c.Close()
	tlogger.Debug("msg", "refresh socket established", "remote", r.RemoteAddr)

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-sub:
			if err := c.WriteMessage(websocket.TextMessage, []byte(RefreshMessage)); err != nil {
				tlogger.Warn("msg", "refresh socket error", "err", err)
				return
			}
		case <-gone:
			return
		case <-s.closing:
			_ = c.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(time.Second))
			return
		}
	}
}
