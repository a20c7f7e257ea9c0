// Package status serves the board's health, current state, last frame and
// Prometheus metrics over HTTP.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	xdraw "golang.org/x/image/draw"

	"github.com/fkcurrie/transit-led-golang/internal/logging"
	"github.com/fkcurrie/transit-led-golang/internal/types"
)

const maxFrameScale = 16

// Source returns the latest board snapshot. It must be safe to call from
// any goroutine.
type Source interface {
	Status() types.BoardStatus
}

// FrameSource returns a copy of the last frame sent to the panel
type FrameSource interface {
	Frame() *image.RGBA
}

// Server is the status HTTP server
type Server struct {
	version string
	source  Source
	frames  FrameSource
	metrics http.Handler
	logger  *slog.Logger
	started time.Time
	now     func() time.Time

	srv *http.Server
}

// New creates a status server on addr. frames and metrics may be nil, in
// which case their routes are not registered.
func New(addr, version string, source Source, frames FrameSource, metrics http.Handler, logger *slog.Logger) *Server {
	s := &Server{
		version: version,
		source:  source,
		frames:  frames,
		metrics: metrics,
		logger:  logging.Component(logger, "status"),
		started: time.Now(),
		now:     time.Now,
	}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}
	return s
}

// Routes returns the server's handler
func (s *Server) Routes() http.Handler {
	router := httprouter.New()
	router.GET("/health", s.healthHandler)
	router.GET("/status", s.statusHandler)
	if s.frames != nil {
		router.GET("/frame.png", s.frameHandler)
	}
	if s.metrics != nil {
		router.Handler(http.MethodGet, "/metrics", s.metrics)
	}
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting status server", slog.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Mode          string  `json:"mode"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	st := s.source.Status()
	resp := healthResponse{
		Status:        "ok",
		Version:       s.version,
		Mode:          st.Mode,
		UptimeSeconds: s.now().Sub(s.started).Seconds(),
	}
	// the last fetch failed; the board keeps showing what it had
	if st.LastFetch != nil && !st.LastFetchOK {
		resp.Status = "degraded"
	}
	s.sendJSON(w, r, resp)
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.sendJSON(w, r, s.source.Status())
}

// frameHandler serves the last frame as a PNG, optionally enlarged with
// ?scale=N so single LEDs are visible
func (s *Server) frameHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	scale := 1
	if v := r.URL.Query().Get("scale"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxFrameScale {
			s.errorResponse(w, http.StatusBadRequest, "scale must be between 1 and 16")
			return
		}
		scale = n
	}

	var img image.Image = s.frames.Frame()
	if scale > 1 {
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		img = dst
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, img); err != nil {
		logging.LogError(s.logger, "failed to encode frame", err)
	}
}

func (s *Server) sendJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.LogError(s.logger, "failed to encode response", err, slog.String("path", r.URL.Path))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, code int, text string) {
	response := struct {
		Code int    `json:"code"`
		Text string `json:"text"`
	}{
		Code: code,
		Text: text,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(s.logger, "failed to encode error response", err)
	}
}
