package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RankingsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "court_rankings_computed_total",
			Help: "The total number of leaderboards computed.",
		}),
		MatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "court_matches_recorded_total",
			Help: "The total number of matches created or updated.",
		}),
		ScoresRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "court_scores_rejected_total",
			Help: "The total number of score pairs rejected by validation.",
		}),
		CounterRecomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "court_counter_recomputes_total",
			Help: "The total number of player counter recomputes.",
		}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "court_counter_recompute_duration_seconds",
			Help:    "The duration of a full player counter recompute.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "court_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "court_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "court_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RankingsComputed,
		s.MatchesRecorded,
		s.ScoresRejected,
		s.CounterRecomputes,
		s.RecomputeDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRankingsComputed() {
	s.RankingsComputed.Inc()
}

func (s *Service) IncMatchesRecorded() {
	s.MatchesRecorded.Inc()
}

func (s *Service) IncScoresRejected() {
	s.ScoresRejected.Inc()
}

func (s *Service) IncCounterRecomputes() {
	s.CounterRecomputes.Inc()
}

func (s *Service) ObserveRecomputeDuration(duration float64) {
	s.RecomputeDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
