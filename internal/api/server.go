package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"breachline/internal/game"
	"breachline/internal/lobby"
	"breachline/internal/transport"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP + WebSocket frontend for a lobby of rooms. Each
// accepted connection joins a room and gets its own read/write
// goroutine pair; writes carry that player's own filtered snapshot,
// never a shared broadcast.
type Server struct {
	lobby       *lobby.Lobby
	router      *chi.Mux
	rateLimiter *IPRateLimiter
	wsLimiter   *WebSocketRateLimiter
}

// NewServer creates an API server with default production
// configuration. The rate limiter's cleanup goroutine starts here, but
// no network listener opens until Start is called, so the router can be
// exercised with httptest.
func NewServer(lob *lobby.Lobby, cfg RouterConfig) *Server {
	cfg.Lobby = lob
	rl := cfg.RateLimiter
	if rl == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rl = NewIPRateLimiter(rateLimitCfg)
		cfg.RateLimiter = rl
	}

	s := &Server{
		lobby:       lob,
		rateLimiter: rl,
		wsLimiter:   NewWebSocketRateLimiter(4),
	}
	s.router = NewRouter(cfg)
	s.router.Get("/ws", s.handleWS)
	return s
}

// Start begins serving HTTP on addr. This is the only method that
// opens a network listener.
func (s *Server) Start(addr string) error {
	log.Printf("server starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler, for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop releases background resources.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

type joinRequest struct {
	Name    string   `json:"name"`
	Loadout []string `json:"loadout"`
}

// handleWS upgrades the connection, joins the player to a room, and
// runs its read/write loops until disconnect.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)
	if !s.wsLimiter.Allow(ip) {
		RecordConnectionRejected("ws_limit")
		http.Error(w, "Too Many Connections", http.StatusTooManyRequests)
		return
	}
	defer s.wsLimiter.Release(ip)

	upgrader := transport.NewUpgrader(func(origin string) bool {
		return IsAllowedOrigin(origin)
	})
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		RecordConnectionRejected("origin")
		return
	}
	peer := transport.NewWSPeer(conn, ip)

	room, err := s.lobby.Assign()
	if err != nil {
		writeError(w, "no room available", http.StatusServiceUnavailable)
		peer.Close()
		return
	}

	var join joinRequest
	_, data, readErr := conn.ReadMessage()
	if readErr != nil {
		peer.Close()
		return
	}
	if err := json.Unmarshal(data, &join); err != nil || join.Name == "" {
		peer.Close()
		return
	}

	player := room.Join(join.Name, join.Loadout)
	if player == nil {
		peer.Send(map[string]string{"error": "room full"})
		peer.Close()
		return
	}
	UpdateWSConnections(1)
	defer func() {
		room.Leave(player.ID)
		peer.Close()
		UpdateWSConnections(-1)
	}()

	peer.Send(map[string]interface{}{"type": "joined", "playerId": player.ID, "team": player.Team})

	done := make(chan struct{})
	go s.readLoop(peer, room, player.ID, done)
	s.writeLoop(peer, room, player.ID, done)
}

func (s *Server) readLoop(peer transport.Peer, room *game.Room, playerID string, done chan struct{}) {
	defer close(done)
	tracker := game.NewSequenceTracker()
	for {
		raw, err := peer.ReadInput()
		if err != nil {
			return
		}
		var pkt game.InputPacket
		if err := json.Unmarshal(raw, &pkt); err != nil {
			continue
		}
		in, err := game.ValidateInput(playerID, pkt, tracker, time.Now())
		if err != nil {
			continue
		}
		room.SubmitInput(in)
	}
}

func (s *Server) writeLoop(peer transport.Peer, room *game.Room, playerID string, done chan struct{}) {
	ticker := time.NewTicker(room.NetworkInterval())
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			snap := room.Snapshot(playerID)
			if snap == nil {
				continue
			}
			if err := peer.Send(snap); err != nil {
				return
			}
		}
	}
}
