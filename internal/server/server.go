package server

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/support-router-poc/server/internal/core"
	"github.com/support-router-poc/server/internal/router/graph"
)

type Config struct {
	Addr string `envconfig:"HTTP_ADDR" default:":8080"`
}

// Server is the thin HTTP boundary in front of the triage orchestrator. It
// validates the request shape, invokes the Runner exactly once per request,
// and echoes the routing decision back verbatim.
type Server struct {
	engine *gin.Engine
	runner graph.Runner
	rdb    redis.Cmdable
}

func New(runner graph.Runner, rdb redis.Cmdable, env core.Environment) *Server {
	if env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), RequestLogger())

	s := &Server{
		engine: engine,
		runner: runner,
		rdb:    rdb,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api/v1")
	api.POST("/query", s.handleQuery)

	s.engine.GET("/healthz", s.handleHealth)
}

// Engine exposes the underlying gin engine, mainly for httptest.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}
