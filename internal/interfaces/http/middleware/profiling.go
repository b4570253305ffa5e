package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rwbiz/backend/internal/infrastructure/telemetry"
)

type ProfilingConfig struct {
	Enabled   bool
	SkipPaths []string
}

func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{Enabled: true, SkipPaths: []string{"/health", "/metrics"}}
}

// ProfilingWithConfig tags CPU samples of each request with its route,
// method and module, plus the company once CompanyScope has run. Register
// it among the scoped guards to get the company label.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if skipPath(c.Request.URL.Path, cfg.SkipPaths, []string{"/swagger"}) {
			c.Next()
			return
		}
		telemetry.WithProfilingLabels(c.Request.Context(), requestLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func requestLabels(c *gin.Context) map[string]string {
	route := c.FullPath()
	labels := map[string]string{
		telemetry.ProfilingLabelMethod: c.Request.Method,
		telemetry.ProfilingLabelRoute:  route,
		telemetry.ProfilingLabelModule: moduleOf(route),
	}
	if actor, ok := GetActor(c); ok {
		labels[telemetry.ProfilingLabelCompanyID] = actor.CompanyID.String()
	}
	return labels
}

// moduleOf picks the resource a route belongs to, skipping the /api/vN
// prefix and parameters: "/api/v1/capital/:id/roi" is "capital"
func moduleOf(route string) string {
	rest := strings.TrimPrefix(route, "/")
	if after, ok := strings.CutPrefix(rest, "api/"); ok {
		rest = after
		if seg, tail, _ := strings.Cut(rest, "/"); len(seg) > 1 && seg[0] == 'v' && strings.Trim(seg[1:], "0123456789") == "" {
			rest = tail
		}
	}
	for _, seg := range strings.Split(rest, "/") {
		if seg != "" && seg[0] != ':' && seg[0] != '*' {
			return seg
		}
	}
	return ""
}
