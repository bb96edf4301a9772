package shared

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string        `envconfig:"APP_ENV" default:"prod"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	HTTPAddr    string        `envconfig:"HTTP_ADDR" default:":8080"`
	MetricsAddr string        `envconfig:"METRICS_ADDR"`
	RedisAddr   string        `envconfig:"REDIS_ADDR"`
	RedisPass   string        `envconfig:"REDIS_PASSWORD"`
	RedisDB     int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL  time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	MySQLDSN    string        `envconfig:"MYSQL_DSN"`

	GoogleKey         string `envconfig:"GOOGLE_API_KEY"`
	PlacesBase        string `envconfig:"PLACES_BASE_URL" default:"https://maps.googleapis.com/maps/api/place"`
	PlacesLang        string `envconfig:"PLACES_LANG" default:"ko"`
	TranslateKey      string `envconfig:"GOOGLE_TRANSLATE_API_KEY"`
	TranslateEndpoint string `envconfig:"TRANSLATE_ENDPOINT"`
	TargetLang        string `envconfig:"TARGET_LANG" default:"ko"`
	OpenAIKey         string `envconfig:"OPENAI_API_KEY"`
	OpenAIBase        string `envconfig:"OPENAI_BASE_URL"`
	OpenAIModel       string `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo"`
	PastebinKey       string `envconfig:"PASTEBIN_API_KEY"`
	PastebinURL       string `envconfig:"PASTEBIN_URL" default:"https://pastebin.com/api/api_post.php"`
	PasteHost         string `envconfig:"PASTE_HOST" default:"pastebin.com"`

	ExternalTimeout time.Duration `envconfig:"EXTERNAL_TIMEOUT" default:"20s"`
	ExternalRPS     int           `envconfig:"EXTERNAL_RPS" default:"5"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not found, using process environment")
	}
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	for k, v := range map[string]string{
		"GOOGLE_API_KEY":           c.GoogleKey,
		"GOOGLE_TRANSLATE_API_KEY": c.TranslateKey,
		"OPENAI_API_KEY":           c.OpenAIKey,
		"PASTEBIN_API_KEY":         c.PastebinKey,
	} {
		if v == "" {
			log.Warn().Str("var", k).Msg("credential is empty")
		}
	}
	return c, nil
}
