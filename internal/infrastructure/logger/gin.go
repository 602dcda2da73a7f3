package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Gin context keys shared with the HTTP middleware
const (
	GinRequestIDKey = "request_id"
	GinLoggerKey    = "logger"
)

// AccessLogOption tunes AccessLog
type AccessLogOption func(*accessLog)

type accessLog struct {
	skip map[string]bool
}

// SkipPaths keeps matching request paths, such as probes, out of the access log.
// They still get a request scoped logger.
func SkipPaths(paths ...string) AccessLogOption {
	return func(a *accessLog) {
		for _, p := range paths {
			a.skip[p] = true
		}
	}
}

// AccessLog attaches a request scoped logger (request id, trace ids, route) to
// the gin and request contexts, then writes one line per finished request.
func AccessLog(base *zap.Logger, opts ...AccessLogOption) gin.HandlerFunc {
	cfg := accessLog{skip: map[string]bool{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx, reqLogger := WithRequestID(c.Request.Context(), base, c.GetString(GinRequestIDKey))
		reqLogger = WithTraceContext(ctx, reqLogger).With(zap.String("method", c.Request.Method))
		c.Request = c.Request.WithContext(WithContext(ctx, reqLogger))
		c.Set(GinLoggerKey, reqLogger)

		c.Next()

		if cfg.skip[c.Request.URL.Path] {
			return
		}
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("bytes", c.Writer.Size()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}
		if ce := reqLogger.Check(levelForStatus(status), "http request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func levelForStatus(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// Recovery turns a handler panic into a 500 in the API error envelope
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			l := base
			if scoped, ok := c.Get(GinLoggerKey); ok {
				if zl, ok := scoped.(*zap.Logger); ok {
					l = zl
				}
			}
			l.Error("panic recovered",
				zap.String("request_id", c.GetString(GinRequestIDKey)),
				zap.String("route", c.FullPath()),
				zap.Any("panic", rec),
				zap.Stack("stacktrace"),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":       "INTERNAL_ERROR",
					"message":    "Internal server error",
					"request_id": c.GetString(GinRequestIDKey),
				},
			})
		}()
		c.Next()
	}
}

// GetGinLogger returns the request scoped logger, or a no-op logger outside AccessLog
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(GinLoggerKey); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	return zap.NewNop()
}
