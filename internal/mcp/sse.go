// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SSEServer handles Server-Sent Events transport for MCP.
type SSEServer struct {
	server   *Server
	port     int
	sessions map[string]*sseSession
	mu       sync.RWMutex
}

// sseSession is one connected SSE client. Responses to messages posted
// on the /message endpoint are delivered over the session's event stream.
type sseSession struct {
	id       string
	messages chan []byte
}

// NewSSEServer creates a new SSE server.
func NewSSEServer(server *Server, port int) *SSEServer {
	return &SSEServer{
		server:   server,
		port:     port,
		sessions: make(map[string]*sseSession),
	}
}

// Run starts the SSE HTTP server and blocks until ctx is canceled.
func (s *SSEServer) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/sse", s.handleSSE)
	mux.HandleFunc("/message", s.handleMessage)
	mux.HandleFunc("/health", s.handleHealth)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("SSE server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *SSEServer) addSession() *sseSession {
	session := &sseSession{
		id:       uuid.New().String(),
		messages: make(chan []byte, 100),
	}

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()

	return session
}

func (s *SSEServer) removeSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *SSEServer) session(id string) (*sseSession, bool) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	return session, ok
}

// handleSSE opens an event stream and tells the client where to post
// its JSON-RPC messages.
func (s *SSEServer) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	session := s.addSession()
	defer func() {
		s.removeSession(session.id)
		log.Printf("SSE client disconnected: %s", session.id)
	}()

	log.Printf("SSE client connected: %s", session.id)

	// Send the endpoint event with the per-session message URL.
	endpoint := fmt.Sprintf("event: endpoint\ndata: /message?sessionId=%s\n\n", session.id)
	if _, err := io.WriteString(w, endpoint); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case msg := <-session.messages:
			event := fmt.Sprintf("event: message\ndata: %s\n\n", msg)
			if _, err := io.WriteString(w, event); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// handleMessage accepts a JSON-RPC message and routes the response to
// the session's event stream.
func (s *SSEServer) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "Missing sessionId", http.StatusBadRequest)
		return
	}

	session, ok := s.session(sessionID)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	response := s.server.handleMessage(r.Context(), body)
	if response != nil {
		responseBytes, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}

		select {
		case session.messages <- responseBytes:
		default:
			log.Printf("Session message buffer full: %s", sessionID)
		}
	}

	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte("Accepted"))
}

// handleHealth returns server health status.
func (s *SSEServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	s.mu.RLock()
	sessionCount := len(s.sessions)
	s.mu.RUnlock()

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "healthy",
		"sessions": sessionCount,
		"server":   ServerName,
		"version":  ServerVersion,
	})
}
