package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDHeader carries the per-request ID set by the HTTP handler.
const requestIDHeader = "X-Request-ID"

// maxBodyBytes matches the stdio line limit.
const maxBodyBytes = 1024 * 1024

// HTTPHandler exposes the same tools as the stdio transport over HTTP:
//
//	GET  /healthz           liveness probe
//	GET  /v1/tools          tool definitions (as tools/list)
//	POST /v1/tools/:name    call a tool; the body is its JSON arguments
//
// A successful call answers 200 with the tool result as the body. Unknown
// tools answer 404 and failed calls 422, both with {"error": "..."}.
func (s *Server) HTTPHandler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.version})
	})

	v1 := r.Group("/v1")
	{
		v1.GET("/tools", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"tools": GetToolDefinitions()})
		})
		v1.POST("/tools/:name", s.handleHTTPToolCall)
	}

	return r
}

// requestLogger tags each request with an ID and logs it at debug level.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		s.logger.Debug("http request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) handleHTTPToolCall(c *gin.Context) {
	name := c.Param("name")
	if !isTool(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown tool: " + name})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.executeTool(c.Request.Context(), name, json.RawMessage(body))
	if err != nil {
		s.logger.Warn("tool failed", "tool", name, "err", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func isTool(name string) bool {
	for _, t := range GetToolDefinitions() {
		if t.Name == name {
			return true
		}
	}
	return false
}
