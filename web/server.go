package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"livescore-service/config"
	"livescore-service/database"
	"livescore-service/logger"
	"livescore-service/pkg/common"
	"livescore-service/sportsapi"
)

// MatchAPI is the slice of the upstream client the HTTP layer exposes
// as pass-through endpoints.
type MatchAPI interface {
	GetMatchByID(matchID int64) (*sportsapi.Fixture, error)
	GetMatchStatistics(matchID int64) ([]sportsapi.TeamStatistics, error)
	GetMatchEvents(matchID int64) ([]sportsapi.MatchEvent, error)
	GetPlayer(playerID int64) (*sportsapi.PlayerProfile, error)
	GetPlayerStats(playerID int64) ([]sportsapi.PlayerStatistics, error)
}

// MatchLister reads stored matches.
type MatchLister interface {
	ListRecent(limit int) ([]database.Match, error)
}

// LiveSyncer runs one fetch-upsert-broadcast cycle.
type LiveSyncer interface {
	SyncLiveMatches() ([]sportsapi.Fixture, error)
}

const storedMatchesLimit = 20

type Server struct {
	config     *config.Config
	api        MatchAPI
	store      MatchLister
	syncer     LiveSyncer
	wsHub      *Hub
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

func NewServer(cfg *config.Config, api MatchAPI, store MatchLister, syncer LiveSyncer, hub *Hub) *Server {
	return &Server{
		config: cfg,
		api:    api,
		store:  store,
		syncer: syncer,
		wsHub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == cfg.CORSOrigin
			},
		},
	}
}

// Handler builds the full route tree with CORS applied.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/matches/live", s.handleLiveMatches).Methods("GET")
	api.HandleFunc("/matches/stored", s.handleStoredMatches).Methods("GET")
	api.HandleFunc("/matches/{matchId}", s.handleMatchByID).Methods("GET")
	api.HandleFunc("/matches/{matchId}/stats", s.handleMatchStats).Methods("GET")
	api.HandleFunc("/matches/{matchId}/events", s.handleMatchEvents).Methods("GET")
	api.HandleFunc("/players/{playerId}", s.handlePlayer).Methods("GET")
	api.HandleFunc("/players/{playerId}/stats", s.handlePlayerStats).Methods("GET")

	router.HandleFunc("/ws", s.handleWebSocket)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{s.config.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(router)
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}
}

// writeJSON writes a JSON response with the given status code
func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) writeSuccess(w http.ResponseWriter, data interface{}) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// pathID parses a numeric path variable
func pathID(r *http.Request, name string) (int64, error) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars[name], 10, 64)
	if err != nil {
		return 0, common.ErrInvalidInput
	}
	return id, nil
}

// handleHealth is the liveness probe
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "OK",
		"message": "Server is running",
	})
}

// handleLiveMatches triggers a sync cycle and returns the fetched list
func (s *Server) handleLiveMatches(w http.ResponseWriter, r *http.Request) {
	fixtures, err := s.syncer.SyncLiveMatches()
	if err != nil {
		logger.Errorf("Error in handleLiveMatches: %v", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeSuccess(w, fixtures)
}

// handleStoredMatches returns the most recent matches from the store
func (s *Server) handleStoredMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.store.ListRecent(storedMatchesLimit)
	if err != nil {
		logger.Errorf("Error in handleStoredMatches: %v", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeSuccess(w, matches)
}

// handleMatchByID looks a single fixture up at the upstream
func (s *Server) handleMatchByID(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchId")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	fixture, err := s.api.GetMatchByID(matchID)
	if errors.Is(err, common.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "Match not found")
		return
	}
	if err != nil {
		logger.Errorf("Error in handleMatchByID: %v", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeSuccess(w, fixture)
}

// handleMatchStats passes per-team statistics through from the upstream
func (s *Server) handleMatchStats(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchId")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	stats, err := s.api.GetMatchStatistics(matchID)
	if err != nil {
		logger.Errorf("Error in handleMatchStats: %v", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeSuccess(w, stats)
}

// handleMatchEvents passes match events through from the upstream
func (s *Server) handleMatchEvents(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchId")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	events, err := s.api.GetMatchEvents(matchID)
	if err != nil {
		logger.Errorf("Error in handleMatchEvents: %v", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeSuccess(w, events)
}

// handlePlayer passes a player profile through from the upstream
func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "playerId")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid player ID")
		return
	}

	player, err := s.api.GetPlayer(playerID)
	if errors.Is(err, common.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "Player not found")
		return
	}
	if err != nil {
		logger.Errorf("Error in handlePlayer: %v", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeSuccess(w, player)
}

// handlePlayerStats passes player statistics through from the upstream
func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "playerId")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid player ID")
		return
	}

	stats, err := s.api.GetPlayerStats(playerID)
	if errors.Is(err, common.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "Player not found")
		return
	}
	if err != nil {
		logger.Errorf("Error in handlePlayerStats: %v", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeSuccess(w, stats)
}

// handleWebSocket upgrades the connection and hands it to the hub
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Errorf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  s.wsHub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	// Queued before registration: once the hub owns the client it may
	// close send at any time, and the welcome stays the first frame.
	welcome := &WSMessage{
		Event: "connected",
		Data: map[string]interface{}{
			"message": "Connected to live score WebSocket",
			"time":    time.Now().Unix(),
		},
	}
	welcomeData, _ := json.Marshal(welcome)
	client.send <- welcomeData

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
