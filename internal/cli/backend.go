package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"quiz-exam-service/internal/app"
	"quiz-exam-service/internal/config"
	"quiz-exam-service/internal/infra/memory"
	"quiz-exam-service/internal/infra/postgres"
	redisstore "quiz-exam-service/internal/infra/redis"
)

// backend holds the repositories selected by configuration plus the connections behind them.
type backend struct {
	questions app.QuestionRepository
	attempts  app.AttemptRepository
	users     app.UserRepository
	coding    app.CodingRepository
	sessions  app.SessionRepository

	closers []func()
}

// openBackend wires Postgres-backed stores when a database URL is configured and in-memory
// stores otherwise. Sessions live in Redis when an address is configured.
func openBackend(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*backend, error) {
	b := &backend{}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)

		db := openBunDB(cfg.Postgres.URL)
		b.closers = append(b.closers, func() { _ = db.Close() })

		b.questions = postgres.NewQuestionStore(pool)
		b.coding = postgres.NewCodingStore(pool)
		b.users = postgres.NewUserStore(db)
		b.attempts = postgres.NewAttemptStore(db)
		log.Info("using postgres stores")
	} else {
		b.questions = memory.NewQuestionStore()
		b.coding = memory.NewCodingStore()
		b.users = memory.NewUserStore()
		b.attempts = memory.NewAttemptStore()
		log.Warn("postgres url not configured, data is kept in memory and lost on exit")
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			b.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		b.sessions = redisstore.NewSessionStore(client)
		log.WithField("addr", cfg.Redis.Addr).Info("using redis session store")
	} else {
		b.sessions = memory.NewSessionStore()
	}

	return b, nil
}

// Close releases connections in reverse order of opening.
func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// requirePostgres rejects one-shot data commands that would otherwise write to memory stores
// discarded on exit.
func requirePostgres(cfg config.Config, command string) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("%s requires postgres.url / DATABASE_URL", command)
	}
	return nil
}

func openBunDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}
