package config

// Config holds all configuration for the application.
type Config struct {
	DBName   string `env:"DB_NAME" envDefault:"court-score.db"`
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Slack    SlackConfig
	Turso    TursoConfig
	PubSub   PubSubConfig
}

type SlackConfig struct {
	Token         string `env:"SLACK_BOT_TOKEN"`
	ChannelID     string `env:"SLACK_CHANNEL_ID"`
	SigningSecret string `env:"SLACK_SIGNING_SECRET"`
}

// Enabled reports whether enough is configured to post to a channel.
func (c SlackConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string `env:"TURSO_PRIMARY_URL"`
	AuthToken  string `env:"TURSO_AUTH_TOKEN"`
}

type PubSubConfig struct {
	ProjectID string `env:"GCP_PROJECT"`
	Topic     string `env:"PUBSUB_TOPIC" envDefault:"match-changed"`
}
