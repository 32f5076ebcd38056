package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nao1215/cyberwatchdog/internal/model"
	"github.com/nao1215/cyberwatchdog/internal/pipeline"
)

const (
	// DefaultRequestTimeout bounds a single /classify request.
	DefaultRequestTimeout = 60 * time.Second

	// ShutdownTimeout bounds graceful shutdown in Run.
	ShutdownTimeout = 5 * time.Second

	// RequestIDHeader carries the per-request ID in both directions.
	RequestIDHeader = "X-Request-ID"

	// MaxRequestBytes caps the request body.
	MaxRequestBytes = 1 << 20

	// RecordTimeout bounds saving one assessment to the recorder.
	RecordTimeout = 5 * time.Second

	// Messages for an empty request.
	MessageNoTextEnglish = "No text provided"
	MessageNoTextNepali  = "कुनै पाठ उपलब्ध छैन"
)

// Assessor is the part of pipeline.Assessor the server needs.
type Assessor interface {
	ClassifyAny(ctx context.Context, text string) *model.AssessmentResult
}

// Recorder stores finished assessments. database.HistoryDB implements it.
type Recorder interface {
	Save(ctx context.Context, target string, result *model.AssessmentResult) (int64, error)
}

// Server is the HTTP front end.
type Server struct {
	assessor       Assessor
	recorder       Recorder
	logger         *slog.Logger
	requestTimeout time.Duration
	engine         *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder saves every assessment served.
func WithRecorder(r Recorder) Option {
	return func(s *Server) {
		s.recorder = r
	}
}

// WithRequestTimeout bounds each /classify request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// New creates a Server and registers its routes.
func New(assessor Assessor, opts ...Option) *Server {
	s := &Server{
		assessor:       assessor,
		logger:         slog.Default(),
		requestTimeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	engine.GET("/healthz", s.handleHealth)
	engine.POST("/classify", s.handleClassify)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	s.engine = engine
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type classifyRequest struct {
	Text string `json:"text" form:"text"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleClassify(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBytes)

	var req classifyRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusOK, &model.AssessmentResult{
			Verdict: model.VerdictInvalid,
			English: MessageNoTextEnglish,
			Nepali:  MessageNoTextNepali,
			Details: []model.Detail{},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
	defer cancel()

	result := s.assessor.ClassifyAny(ctx, text)
	if s.recorder != nil {
		s.record(c.Request.Context(), pipeline.InputFor(text).Label(), result)
	}
	c.JSON(http.StatusOK, result)
}

// record saves result even when the request deadline was used up by the
// assessment itself.
func (s *Server) record(parent context.Context, target string, result *model.AssessmentResult) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), RecordTimeout)
	defer cancel()

	if _, err := s.recorder.Save(ctx, target, result); err != nil {
		s.logger.Warn("failed to record assessment", "target", target, "error", err)
	}
}

// requestLogger assigns a request ID, unless the client sent one, and logs
// every request once it completes.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()
		s.logger.Info("request completed",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", fmt.Sprintf("%.1f", float64(time.Since(start).Microseconds())/1000.0),
		)
	}
}
