package api

import (
	"net/http"

	"github.com/pixelated-empathy/bias-engine/pkg/cache"
	"github.com/pixelated-empathy/bias-engine/pkg/handlers"
	"github.com/pixelated-empathy/bias-engine/pkg/routes"
)

// CacheMetrics is the payload for the cache metrics endpoint.
type CacheMetrics struct {
	Cache cache.Stats `json:"cache"`
}

func metricsRoutes(domain *Domain) routes.Group {
	return routes.Group{
		Prefix: "/metrics",
		Routes: []routes.Route{
			{
				Method:  http.MethodGet,
				Pattern: "/cache",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					handlers.RespondJSON(w, http.StatusOK, CacheMetrics{
						Cache: domain.Engine.CacheStats(),
					})
				},
			},
		},
	}
}
