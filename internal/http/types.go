package http

import (
	"net/http"

	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/config"
	"github.com/mauv0809/court-score/internal/metrics"
	"github.com/mauv0809/court-score/internal/notifier"
	"github.com/mauv0809/court-score/internal/processor"
	"github.com/mauv0809/court-score/internal/pubsub"
)

type Server struct {
	Store          club.ClubStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	PubSub         pubsub.PubSubClient
	Router         *http.ServeMux
}
