package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"scholarship-exam-service/internal/app"
	"scholarship-exam-service/internal/domain"
	"scholarship-exam-service/internal/infra/memory"
	pgloader "scholarship-exam-service/internal/infra/postgres"
	pgmigrations "scholarship-exam-service/internal/infra/postgres/migrations"
	infraredis "scholarship-exam-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestExamEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedBank(t, ctx, pgURL, "scholarship", sampleBank())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	loader := pgloader.NewQuestionLoader(pool, "scholarship")
	questions := infraredis.NewQuestionRepository(redisClient, loader, 5*time.Minute)
	history := infraredis.NewHistoryStore(redisClient, 10)
	state := infraredis.NewStateStore(redisClient)

	service := app.NewExamService(memory.NewSessionStore(), questions, history, state, app.ExamConfig{
		Structure: []domain.ExamSpecEntry{
			{Subject: "Maths", Count: 2},
			{Subject: "English", Count: 1},
		},
		PassMark:      70,
		HistoryWindow: 10,
	})

	sessionID, view, err := service.Start(ctx, app.StartOptions{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.Total != 3 {
		t.Fatalf("expected 3 composed questions, got %d", view.Total)
	}

	var summary *app.Summary
	for i := 0; i < 3; i++ {
		current, err := service.View(ctx, sessionID)
		if err != nil {
			t.Fatalf("view %d: %v", i, err)
		}
		if _, err := service.Answer(ctx, sessionID, current.Subject+"-ok"); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if _, summary, err = service.Advance(ctx, sessionID); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}
	if summary == nil || summary.Record.Score != 3 || !summary.Record.Passed {
		t.Fatalf("expected perfect summary, got %+v", summary)
	}

	// History and counters survive in redis for a fresh service instance.
	service2 := app.NewExamService(memory.NewSessionStore(), questions, history, state, app.ExamConfig{
		Structure:     []domain.ExamSpecEntry{{Subject: "Maths", Count: 2}},
		PassMark:      70,
		HistoryWindow: 10,
	})
	records, err := service2.History(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 1 || records[0].Score != 3 {
		t.Fatalf("expected persisted record, got %+v", records)
	}
	stats, err := service2.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 1 || stats.Wins != 1 {
		t.Fatalf("expected stats 1/1, got %+v", stats)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "exam", "POSTGRES_PASSWORD": "exampass", "POSTGRES_DB": "examdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
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
	dsn := fmt.Sprintf("postgres://exam:exampass@%s:%s/examdb?sslmode=disable", host, port.Port())
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

func seedBank(t *testing.T, ctx context.Context, dsn, bankID string, bank []domain.Question) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := json.Marshal(bank)
	if err != nil {
		t.Fatalf("marshal bank: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO question_banks (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, bankID, string(data)); err != nil {
		t.Fatalf("insert bank: %v", err)
	}
}

func sampleBank() []domain.Question {
	bank := make([]domain.Question, 0, 4)
	for i := 0; i < 3; i++ {
		bank = append(bank, domain.Question{
			ID:      fmt.Sprintf("maths-%d", i),
			Subject: "Maths",
			Chapter: 1,
			Prompt:  fmt.Sprintf("Maths prompt %d", i),
			Options: []domain.Option{
				{Text: "Maths-ok"}, {Text: "no-1"}, {Text: "no-2"}, {Text: "no-3"},
			},
			Answer: "Maths-ok",
		})
	}
	bank = append(bank, domain.Question{
		ID:      "english-0",
		Subject: "English",
		Chapter: 1,
		Prompt:  "English prompt 0",
		Options: []domain.Option{
			{Text: "English-ok"}, {Text: "no-1"}, {Text: "no-2"}, {Text: "no-3"},
		},
		Answer: "English-ok",
	})
	return bank
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
