package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/propdesk/backend/internal/infrastructure/telemetry"
)

// profilingLabelOffice slices profiles per office. Offices are few, so the
// label stays low cardinality.
const profilingLabelOffice = "office_id"

// Profiling attaches method, route, resource and office labels to the CPU
// samples taken while the request runs. Requests that match no route are
// left unlabelled.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}
		labels := map[string]string{
			telemetry.ProfilingLabelMethod:   c.Request.Method,
			telemetry.ProfilingLabelRoute:    route,
			telemetry.ProfilingLabelResource: resourceFromRoute(route),
			profilingLabelOffice:             c.GetString(OfficeIDKey),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceFromRoute returns the first path segment after the API version,
// e.g. "/api/v1/units/:id/listing" gives "units".
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) || strings.HasPrefix(part, ":") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
