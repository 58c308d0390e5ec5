package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"frontdesk/pkg/agent"
	"frontdesk/pkg/api"
	"frontdesk/pkg/config"
	"frontdesk/pkg/knowledge"
	"frontdesk/pkg/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are enforced by the CORS layer
	},
}

// Deps collects the components the HTTP surface exposes. Retriever, Synth
// and Index may be nil when the knowledge subsystem is disabled.
type Deps struct {
	Agent     api.Agent
	Store     store.Store
	Retriever knowledge.Retriever
	Synth     knowledge.Synthesizer
	Index     *knowledge.Index
	DataDir   string
	TopK      int
}

// Server is the web front door for the receptionist: the conversational
// endpoint, direct knowledge lookup, ingestion, health, and a websocket
// feed of in-flight turn activity. It implements api.TurnObserver so the
// agent driver can stream progress to connected clients.
type Server struct {
	cfg    config.ServerConfig
	deps   Deps
	server *http.Server

	mu    sync.RWMutex
	conns map[*safeConn]struct{}
}

type safeConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (sc *safeConn) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal ws payload: %w", err)
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.Conn.WriteMessage(websocket.TextMessage, data)
}

func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	if deps.TopK <= 0 {
		deps.TopK = 3
	}
	return &Server{
		cfg:   cfg,
		deps:  deps,
		conns: make(map[*safeConn]struct{}),
	}
}

// Handler builds the route table. Exposed separately so tests can drive
// the mux without a listening socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/agent", s.handleAgent)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return s.corsMiddleware(mux)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Web API listening", "port", s.cfg.Port)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Web API server error", "error", err)
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	var req api.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), "")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required", "")
		return
	}

	reply, err := s.deps.Agent.HandleTurn(r.Context(), req)
	if err != nil {
		var fault *agent.Fault
		if errors.As(err, &fault) {
			writeError(w, http.StatusInternalServerError, err.Error(), string(fault.Kind))
			return
		}
		slog.ErrorContext(r.Context(), "Turn failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	if reply.Invocations == nil {
		reply.Invocations = []api.ToolInvocation{}
	}
	writeJSON(w, http.StatusOK, reply)
}

type healthReply struct {
	Status        string `json:"status"`
	AgentReady    bool   `json:"agent_ready"`
	Database      bool   `json:"database"`
	KnowledgeBase bool   `json:"knowledge_base"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reply := healthReply{
		Status:     "healthy",
		AgentReady: s.deps.Agent != nil,
	}

	if s.deps.Store != nil {
		if _, err := s.deps.Store.SlotsOn(r.Context(), "1970-01-01"); err == nil {
			reply.Database = true
		}
	}
	if s.deps.Index != nil {
		if n, err := s.deps.Index.Count(r.Context()); err == nil && n > 0 {
			reply.KnowledgeBase = true
		}
	}

	if !reply.AgentReady || !reply.Database {
		reply.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, reply)
}

type askRequest struct {
	Question string `json:"question"`
}

type askReply struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// handleAsk answers a question straight from the knowledge base, skipping
// the reasoning engine entirely.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required", "")
		return
	}
	if s.deps.Retriever == nil || s.deps.Synth == nil {
		writeError(w, http.StatusServiceUnavailable, "knowledge base is not available", "")
		return
	}

	passages, err := s.deps.Retriever.Retrieve(r.Context(), req.Question, s.deps.TopK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("retrieval failed: %v", err), "")
		return
	}

	chunks := make([]string, 0, len(passages))
	seen := make(map[string]bool)
	sources := []string{}
	for _, p := range passages {
		chunks = append(chunks, p.Text)
		source := p.Source
		if source == "" {
			source = "Unknown"
		}
		if !seen[source] {
			seen[source] = true
			sources = append(sources, source)
		}
	}

	writeJSON(w, http.StatusOK, askReply{
		Answer:  s.deps.Synth.Synthesize(req.Question, chunks, sources),
		Sources: sources,
	})
}

type ingestReply struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.deps.Index == nil {
		writeError(w, http.StatusServiceUnavailable, "knowledge base is not available", "")
		return
	}

	docs, chunks, err := s.deps.Index.Ingest(r.Context(), s.deps.DataDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("ingestion failed: %v", err), "")
		return
	}

	slog.InfoContext(r.Context(), "Knowledge base rebuilt", "documents", docs, "chunks", chunks)
	writeJSON(w, http.StatusOK, ingestReply{Documents: docs, Chunks: chunks})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	rawConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WS upgrade failed", "error", err)
		return
	}
	conn := &safeConn{Conn: rawConn}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	// The feed is one-way; reads only serve to detect the peer going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// OnSignal implements api.TurnObserver.
func (s *Server) OnSignal(threadID, signal string) {
	s.broadcast(map[string]any{
		"type":      "signal",
		"thread_id": threadID,
		"value":     signal,
	})
}

// OnToolCall implements api.TurnObserver.
func (s *Server) OnToolCall(threadID string, inv api.ToolInvocation, output string) {
	s.broadcast(map[string]any{
		"type":      "tool",
		"thread_id": threadID,
		"name":      inv.Tool,
		"arguments": inv.Arguments,
		"output":    output,
	})
}

// OnReply implements api.TurnObserver.
func (s *Server) OnReply(threadID, reply string) {
	s.broadcast(map[string]any{
		"type":      "reply",
		"thread_id": threadID,
		"text":      reply,
	})
}

func (s *Server) broadcast(payload any) {
	s.mu.RLock()
	conns := make([]*safeConn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.RUnlock()

	for _, c := range conns {
		if err := c.writeJSON(payload); err != nil {
			slog.Debug("WS write failed, dropping client", "error", err)
		}
	}
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(s.cfg.AllowedOrigins))
	for _, o := range s.cfg.AllowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowed[origin] || allowed["*"]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type errorReply struct {
	Detail    string `json:"detail"`
	ErrorKind string `json:"error_kind,omitempty"`
}

func writeError(w http.ResponseWriter, code int, detail, kind string) {
	writeJSON(w, code, errorReply{Detail: detail, ErrorKind: kind})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
