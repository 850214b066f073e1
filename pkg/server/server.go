package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"asciiray/internal/logger"
	"asciiray/pkg/config"
	"asciiray/pkg/engine"
)

// AccessKeyHeader carries the shared secret when the server requires one
const AccessKeyHeader = "Access-Key"

// RenderIDHeader echoes the id of the rendered frame
const RenderIDHeader = "X-Render-ID"

// Server serves rendered frames over HTTP
type Server struct {
	config config.ServerConfig
	engine *engine.Engine
	logger *logger.Logger
	mux    *http.ServeMux
}

// NewServer creates a server rendering with eng
func NewServer(cfg config.ServerConfig, eng *engine.Engine, log *logger.Logger) *Server {
	s := &Server{
		config: cfg,
		engine: eng,
		logger: log,
		mux:    http.NewServeMux(),
	}

	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/render", s.handleRender)

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start listens on the configured address
func (s *Server) Start() error {
	s.logger.Infof("Starting server on %s", s.config.Address)
	return http.ListenAndServe(s.config.Address, s)
}

// RenderRequest holds the parsed query of a render call
type RenderRequest struct {
	Width  int
	Height int
	Format string // "text" or "png"
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleRender renders one frame and returns it as text or PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if s.config.AccessKey != "" && r.Header.Get(AccessKeyHeader) != s.config.AccessKey {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := s.parseRenderRequest(r.URL.Query())
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	frame, err := s.engine.RenderFrameAt(req.Width, req.Height)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrInvalidResolution) {
			status = http.StatusBadRequest
		}
		s.logger.Errorf("render %dx%d failed: %v", req.Width, req.Height, err)
		http.Error(w, err.Error(), status)
		return
	}

	s.logger.Infof("Rendered %s (%dx%d, %s)", frame.ID, req.Width, req.Height, req.Format)
	w.Header().Set(RenderIDHeader, frame.ID)

	switch req.Format {
	case "png":
		data, err := s.engine.PNG(frame)
		if err != nil {
			s.logger.Errorf("encode %s: %v", frame.ID, err)
			http.Error(w, "Failed to encode image", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(frame.Grid.Bytes())
	}
}

// parseRenderRequest reads width, height and format, falling back to the
// engine's configured resolution
func (s *Server) parseRenderRequest(q url.Values) (*RenderRequest, error) {
	defaults := s.engine.Config().Raytracer
	req := &RenderRequest{Format: "text"}

	var err error
	if req.Width, err = parseIntParam(q, "width", defaults.Width, 1, s.config.MaxWidth); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(q, "height", defaults.Height, 1, s.config.MaxHeight); err != nil {
		return nil, err
	}

	switch f := q.Get("format"); f {
	case "", "text":
	case "png":
		req.Format = "png"
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}

	return req, nil
}

// parseIntParam parses an integer query parameter within [minVal, maxVal].
// maxVal <= 0 disables the upper bound.
func parseIntParam(q url.Values, name string, defaultVal, minVal, maxVal int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return defaultVal, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if val < minVal || (maxVal > 0 && val > maxVal) {
		return 0, fmt.Errorf("%s must be between %d and %d", name, minVal, maxVal)
	}
	return val, nil
}
