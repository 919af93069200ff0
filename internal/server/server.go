// Package server exposes the meeting pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/leonardotrapani/neuronote/internal/metrics"
	"github.com/leonardotrapani/neuronote/internal/pipeline"
	"github.com/leonardotrapani/neuronote/internal/storage"
)

// Processor runs one uploaded meeting through the pipeline.
type Processor interface {
	Process(ctx context.Context, audioPath, meetingID string) (*pipeline.Result, error)
}

// Uploads stores the temporary audio file of a request.
type Uploads interface {
	WriteUpload(r io.Reader, meetingID, filename string) (string, error)
	RemoveUpload(path string) error
}

// Component is a process-wide adapter reported by /health.
type Component interface {
	Ready() bool
	Provider() string
	Model() string
}

type Options struct {
	Addr              string
	Debug             bool
	MaxUploadBytes    int64 // 0 disables the limit
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

type Deps struct {
	Processor   Processor
	Uploads     Uploads
	IDs         *storage.IDGenerator
	Metrics     *metrics.Metrics
	Transcriber Component
	Insights    Component
	Log         zerolog.Logger
}

type Server struct {
	opts   Options
	deps   Deps
	engine *gin.Engine
	http   *http.Server
	log    zerolog.Logger
}

func New(deps Deps, opts Options) *Server {
	if deps.IDs == nil {
		deps.IDs = storage.NewIDGenerator(nil)
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}
	if opts.ReadHeaderTimeout == 0 {
		opts.ReadHeaderTimeout = 10 * time.Second
	}
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		opts: opts,
		deps: deps,
		log:  deps.Log.With().Str("component", "server").Logger(),
	}
	s.engine = s.routes()
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
	}
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), accessLog(s.log), recovery(s.log), cors.Default())

	r.POST("/recorded-audio", s.handleRecordedAudio)
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))

	r.NoRoute(s.handleNotFound)
	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully, waiting
// up to the shutdown timeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
