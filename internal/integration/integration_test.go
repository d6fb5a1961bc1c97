package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"golang.org/x/crypto/bcrypt"
	"quiz-exam-service/internal/app"
	"quiz-exam-service/internal/domain"
	"quiz-exam-service/internal/infra/postgres"
	pgmigrations "quiz-exam-service/internal/infra/postgres/migrations"
	infraredis "quiz-exam-service/internal/infra/redis"
)

type stack struct {
	pool  *pgxpool.Pool
	db    *bun.DB
	redis *goredis.Client
}

func setup(t *testing.T, ctx context.Context) stack {
	t.Helper()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	t.Cleanup(pgCleanup)
	redisURL, redisCleanup := startRedis(t, ctx)
	t.Cleanup(redisCleanup)

	db := migrateDB(t, ctx, pgURL)
	t.Cleanup(func() { _ = db.Close() })

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	t.Cleanup(pool.Close)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	t.Cleanup(func() { _ = redisClient.Close() })

	return stack{pool: pool, db: db, redis: redisClient}
}

func TestAttemptFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	s := setup(t, ctx)

	questions := postgres.NewQuestionStore(s.pool)
	catalog := app.NewCatalogService(questions)
	attempts := app.NewAttemptService(postgres.NewAttemptStore(s.db), questions)

	bank := make([]app.QuestionInput, 60)
	for i := range bank {
		bank[i] = app.QuestionInput{
			Text:           fmt.Sprintf("question %d", i+1),
			Options:        []domain.Option{{ID: "A", Text: "one"}, {ID: "B", Text: "two"}, {ID: "C", Text: "three"}},
			CorrectAnswers: []string{"B"},
		}
	}
	bank[1].CorrectAnswers = []string{"A", "C"}
	sets, err := catalog.ImportQuestions(ctx, bank, 50)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(sets) != 2 || sets[0].QuestionCount != 50 || sets[1].QuestionCount != 10 {
		t.Fatalf("unexpected sets %+v", sets)
	}

	setOne, err := catalog.QuestionsInSet(ctx, 1)
	if err != nil {
		t.Fatalf("questions in set: %v", err)
	}
	if len(setOne) != 50 || setOne[0].CorrectAnswers != nil {
		t.Fatalf("expected 50 questions without answer keys, got %d", len(setOne))
	}
	byText := make(map[string]domain.Question, len(setOne))
	for _, q := range setOne {
		byText[q.Text] = q
	}
	full, err := catalog.GetQuestion(ctx, byText["question 2"].ID)
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if !full.HasMultipleAnswers || len(full.CorrectAnswers) != 2 {
		t.Fatalf("answer key not stored: %+v", full)
	}

	set := 1
	attempt, err := attempts.StartAttempt(ctx, app.StartAttemptInput{UserID: "u1", UserName: "Ann", QuestionSetNumber: &set})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	first := byText["question 1"]
	res, err := attempts.SubmitAnswer(ctx, attempt.ID, first.ID, []string{"B"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.IsCorrect || res.CurrentScore != 1 || res.TotalAnswered != 1 {
		t.Fatalf("first answer = %+v", res)
	}
	res, err = attempts.SubmitAnswer(ctx, attempt.ID, first.ID, []string{"A"})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if res.IsCorrect || res.CurrentScore != 0 || res.TotalAnswered != 1 {
		t.Fatalf("replacement = %+v", res)
	}

	// Concurrent submissions to one attempt are serialized by the row lock.
	var wg sync.WaitGroup
	for i := 2; i <= 21; i++ {
		wg.Add(1)
		go func(q domain.Question) {
			defer wg.Done()
			if _, err := attempts.SubmitAnswer(ctx, attempt.ID, q.ID, []string{"B"}); err != nil {
				t.Errorf("concurrent submit: %v", err)
			}
		}(byText[fmt.Sprintf("question %d", i)])
	}
	wg.Wait()

	completed, err := attempts.CompleteAttempt(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	// Question 2 expects [A C], every other concurrent answer is correct.
	if completed.TotalQuestions != 21 || completed.Score != 19 || len(completed.Answers) != 21 {
		t.Fatalf("invariants broken: total=%d score=%d answers=%d", completed.TotalQuestions, completed.Score, len(completed.Answers))
	}
	if completed.Status != domain.StatusCompleted || completed.CompletedAt == nil {
		t.Fatalf("attempt not completed: %+v", completed)
	}
	if _, err := attempts.SubmitAnswer(ctx, attempt.ID, first.ID, []string{"B"}); !errors.Is(err, domain.ErrAttemptCompleted) {
		t.Fatalf("expected completed attempt to reject answers, got %v", err)
	}

	detail, err := attempts.AttemptDetail(ctx, domain.Identity{UserID: "u1"}, attempt.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.DetailedAnswers) != 21 {
		t.Fatalf("expected 21 detailed answers, got %d", len(detail.DetailedAnswers))
	}
	if _, err := attempts.AttemptDetail(ctx, domain.Identity{UserID: "u2"}, attempt.ID); !errors.Is(err, domain.ErrAttemptNotFound) {
		t.Fatalf("foreign detail should be not found, got %v", err)
	}

	history, err := attempts.ListAttempts(ctx, domain.Identity{UserID: "u1"}, domain.StatusCompleted)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].ID != attempt.ID {
		t.Fatalf("unexpected history %+v", history)
	}

	page, err := catalog.ListQuestions(ctx, 2, 25)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if page.TotalQuestions != 60 || page.TotalPages != 3 || len(page.Questions) != 25 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestAuthAndCodingEndToEnd(t *testing.T) {
	ctx := context.Background()
	s := setup(t, ctx)

	auth, err := app.NewAuthService(postgres.NewUserStore(s.db), infraredis.NewSessionStore(s.redis), app.AuthOptions{
		Secret:     "integration-secret",
		SessionTTL: time.Hour,
		HashCost:   bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}

	user, token, err := auth.Register(ctx, app.RegisterInput{Email: "ann@example.com", Password: "pw", Name: "Ann"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := auth.Register(ctx, app.RegisterInput{Email: "ANN@example.com", Password: "pw", Name: "Ann"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
	identity, err := auth.Authenticate(ctx, token)
	if err != nil || identity.UserID != user.ID {
		t.Fatalf("authenticate: %+v %v", identity, err)
	}
	if _, _, err := auth.Login(ctx, "ann@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := auth.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := auth.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected revoked session, got %v", err)
	}

	coding := app.NewCodingService(postgres.NewCodingStore(s.pool))
	if _, err := coding.SeedQuestions(ctx, []domain.CodingQuestion{
		{Title: "Two Sum", Language: "Python", Difficulty: "Easy", Examples: []domain.CodingExample{{Input: "[2,7], 9", Output: "[0,1]"}}},
		{Title: "FizzBuzz", Language: "javascript", Difficulty: "Easy"},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	python, err := coding.ListQuestions(ctx, "python")
	if err != nil {
		t.Fatalf("list coding: %v", err)
	}
	if len(python) != 1 || len(python[0].Examples) != 1 {
		t.Fatalf("unexpected python problems %+v", python)
	}

	sub, persisted, err := coding.Submit(ctx, identity, app.SubmitCodeInput{QuestionID: python[0].ID, Language: "python", Code: "print(1)"})
	if err != nil {
		t.Fatalf("submit code: %v", err)
	}
	if !persisted || sub.ID == "" {
		t.Fatalf("submission not persisted: %+v", sub)
	}
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM coding_submissions WHERE user_id = $1`, user.ID).Scan(&count); err != nil {
		t.Fatalf("count submissions: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 stored submission, got %d", count)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) *bun.DB {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
