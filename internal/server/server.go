package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agenthands/topicscan/internal/config"
	"github.com/agenthands/topicscan/internal/corpus"
	"github.com/agenthands/topicscan/internal/triage"
)

type Server struct {
	Pipeline *triage.Pipeline
	Corpus   config.CorpusConfig
	Logger   *zap.Logger
}

func NewServer(pipeline *triage.Pipeline, corpusCfg config.CorpusConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Pipeline: pipeline,
		Corpus:   corpusCfg,
		Logger:   logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.Healthz)
	r.POST("/triage", s.Triage)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// TriageRequest carries the topic and, optionally, the documents to triage.
// With no documents the server reads its configured corpus directory.
type TriageRequest struct {
	Topic     string            `json:"topic"`
	Documents map[string]string `json:"documents"`
}

func (s *Server) Triage(c *gin.Context) {
	var req TriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var docs *corpus.Corpus
	if len(req.Documents) > 0 {
		docs = corpus.FromMap(req.Documents)
	} else {
		loaded, err := corpus.LoadDir(s.Corpus.Dir, s.Corpus.Extensions)
		if err != nil {
			s.Logger.Error("failed to load corpus", zap.String("dir", s.Corpus.Dir), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load corpus"})
			return
		}
		docs = loaded
	}

	report, err := s.Pipeline.Run(c.Request.Context(), req.Topic, docs)
	switch {
	case errors.Is(err, triage.ErrEmptyTopic), errors.Is(err, triage.ErrEmptyCorpus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.Logger.Error("triage failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to triage documents"})
		return
	}

	c.JSON(http.StatusOK, report)
}
