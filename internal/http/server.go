package http

import (
	"net/http"

	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/config"
	"github.com/mauv0809/court-score/internal/http/handlers"
	"github.com/mauv0809/court-score/internal/metrics"
	"github.com/mauv0809/court-score/internal/notifier"
	"github.com/mauv0809/court-score/internal/processor"
	"github.com/mauv0809/court-score/internal/pubsub"
)

func NewServer(store club.ClubStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		PubSub:         pubsub,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	slackAuth := slackVerificationMiddleware(s.Cfg.Slack.SigningSecret)

	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /rankings", Chain(handlers.RankingsHandler(s.Store, s.Metrics), paramsMiddleware))

	s.Router.Handle("GET /players", Chain(handlers.ListPlayersHandler(s.Store), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(handlers.CreatePlayerHandler(s.Store), paramsMiddleware))
	s.Router.Handle("GET /players/{id}", Chain(handlers.GetPlayerHandler(s.Store), paramsMiddleware))
	s.Router.Handle("PUT /players/{id}", Chain(handlers.UpdatePlayerHandler(s.Store), paramsMiddleware))
	s.Router.Handle("DELETE /players/{id}", Chain(handlers.DeletePlayerHandler(s.Store), paramsMiddleware))

	s.Router.Handle("GET /matches", Chain(handlers.ListMatchesHandler(s.Store), paramsMiddleware))
	s.Router.Handle("POST /matches", Chain(handlers.CreateMatchHandler(s.Store, s.Metrics, s.PubSub), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(handlers.GetMatchHandler(s.Store), paramsMiddleware))
	s.Router.Handle("PUT /matches/{id}", Chain(handlers.UpdateMatchHandler(s.Store, s.Metrics, s.PubSub), paramsMiddleware))
	s.Router.Handle("DELETE /matches/{id}", Chain(handlers.DeleteMatchHandler(s.Store, s.PubSub), paramsMiddleware))

	s.Router.Handle("GET /scores/validate", Chain(handlers.ValidateScoreHandler(s.Metrics), paramsMiddleware))
	s.Router.Handle("GET /avatars", Chain(handlers.AvatarsHandler(), paramsMiddleware))

	s.Router.Handle("POST /clear", Chain(handlers.ClearStoreHandler(s.Store, s.PubSub), paramsMiddleware))
	s.Router.Handle("POST /process", Chain(handlers.ProcessHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("POST /events/match-changed", Chain(handlers.MatchChangedHandler(s.Processor, s.PubSub), paramsMiddleware))

	s.Router.Handle("POST /slack/command/leaderboard", Chain(handlers.LeaderboardCommandHandler(s.Store, s.Notifier, s.Metrics), paramsMiddleware, slackAuth))
	s.Router.Handle("POST /slack/command/player-stats", Chain(handlers.PlayerStatsCommandHandler(s.Store, s.Notifier), paramsMiddleware, slackAuth))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
