package api

import (
	"github.com/pixelated-empathy/bias-engine/internal/alerts"
	"github.com/pixelated-empathy/bias-engine/internal/analyses"
	"github.com/pixelated-empathy/bias-engine/internal/bridge"
	"github.com/pixelated-empathy/bias-engine/internal/engine"
	"github.com/pixelated-empathy/bias-engine/internal/lexicon"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Engine   *engine.Engine
	Analyses analyses.System
	Alerts   alerts.System
}

// NewDomain creates all domain systems from the API runtime. The linguistic
// dimension is served by the analysis backend bridge; the remaining
// dimensions run in-process.
func NewDomain(runtime *Runtime) (*Domain, error) {
	cfg := runtime.Config

	backend := bridge.New(&cfg.Bridge, runtime.Logger)
	analyzers := engine.AnalyzerSet{
		engine.DimensionLinguistic:          backend.Dimension(engine.DimensionLinguistic),
		engine.DimensionDemographicFairness: lexicon.NewDemographicFairness(),
		engine.DimensionCulturalSensitivity: lexicon.NewCulturalSensitivity(),
	}

	alertsSystem := alerts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	var notifier alerts.NotificationSink
	if cfg.Alerts.Enabled() {
		notifier = alerts.NewWebhookNotifier(&cfg.Alerts, runtime.Logger)
	}

	dispatcher, err := alerts.NewDispatcher(
		&cfg.Alerts,
		alertsSystem,
		notifier,
		runtime.Archive,
		runtime.Logger,
	)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(
		analyzers,
		cfg.Engine.Thresholds(),
		cfg.Engine.ExtractionTimeoutDuration(),
		runtime.Cache,
		dispatcher,
		runtime.Logger,
	)
	if err != nil {
		return nil, err
	}

	analysesSystem := analyses.New(
		runtime.Database.Connection(),
		eng,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Engine:   eng,
		Analyses: analysesSystem,
		Alerts:   alertsSystem,
	}, nil
}
