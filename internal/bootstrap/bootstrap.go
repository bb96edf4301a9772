// Package bootstrap builds the session service and its adapters from config.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"placelog/internal/adapters/llm"
	"placelog/internal/adapters/memory"
	"placelog/internal/adapters/pastebin"
	"placelog/internal/adapters/places"
	redisad "placelog/internal/adapters/redis"
	"placelog/internal/adapters/translate"
	"placelog/internal/app"
	"placelog/internal/domain"
	"placelog/internal/shared"
	mysqlrepo "placelog/internal/storage/mysql"
)

// Closer releases whatever a constructor opened.
type Closer func()

func noop() {}

// OpenStore returns the Redis store when REDIS_ADDR is set, else process memory.
func OpenStore(ctx context.Context, cfg shared.Config) (domain.SessionStore, Closer, error) {
	if cfg.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR not set, sessions kept in memory")
		return memory.New(), noop, nil
	}
	st := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := st.Ping(ctx); err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("redis connection ok")
	return st, func() { _ = st.Close() }, nil
}

// OpenHistory connects the MySQL history log. An empty DSN disables history
// and returns a nil repository.
func OpenHistory(ctx context.Context, cfg shared.Config) (domain.HistoryRepository, Closer, error) {
	if cfg.MySQLDSN == "" {
		return nil, noop, nil
	}
	dsn, err := historyDSN(cfg.MySQLDSN)
	if err != nil {
		return nil, nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}
	log.Info().Msg("database connection ok")
	return mysqlrepo.New(db), func() { _ = db.Close() }, nil
}

// historyDSN forces parseTime so DATETIME columns scan into time.Time.
func historyDSN(raw string) (string, error) {
	c, err := mysql.ParseDSN(raw)
	if err != nil {
		return "", fmt.Errorf("MYSQL_DSN: %w", err)
	}
	c.ParseTime = true
	return c.FormatDSN(), nil
}

// Sessions wires every vendor client into a SessionService.
func Sessions(ctx context.Context, cfg shared.Config, store domain.SessionStore, history domain.HistoryRepository) (*app.SessionService, Closer, error) {
	pl, err := places.New(cfg.PlacesBase, cfg.GoogleKey, cfg.PlacesLang, cfg.ExternalTimeout, cfg.ExternalRPS)
	if err != nil {
		return nil, nil, err
	}

	trKey := cfg.TranslateKey
	if trKey == "" {
		trKey = cfg.GoogleKey
	}
	tr, err := translate.New(ctx, trKey, cfg.TranslateEndpoint, cfg.TargetLang, cfg.ExternalTimeout)
	if err != nil {
		return nil, nil, err
	}

	gen, err := llm.New(cfg.OpenAIKey, cfg.OpenAIBase, cfg.OpenAIModel, cfg.ExternalTimeout)
	if err != nil {
		_ = tr.Close()
		return nil, nil, err
	}

	pb, err := pastebin.New(cfg.PastebinURL, cfg.PastebinKey, cfg.ExternalTimeout, cfg.ExternalRPS)
	if err != nil {
		_ = tr.Close()
		return nil, nil, err
	}

	svc := app.NewSessionService(
		store,
		app.NewPlaceResolver(pl),
		app.NewReviewTranslator(tr),
		app.NewNarrativeGenerator(gen, tr.Target()),
		app.NewPublisher(pb, cfg.PasteHost),
		history,
		cfg.SessionTTL,
	)
	return svc, func() { _ = tr.Close() }, nil
}
