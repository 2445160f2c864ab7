package api

import (
	"net/http"

	"github.com/pixelated-empathy/bias-engine/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Analyses.Handler().Routes(),
		domain.Alerts.Handler().Routes(),
		metricsRoutes(domain),
	)
}
