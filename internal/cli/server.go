package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scholarship-exam-service/internal/app"
	"scholarship-exam-service/internal/config"
	"scholarship-exam-service/internal/domain"
	"scholarship-exam-service/internal/infra/memory"
	pgloader "scholarship-exam-service/internal/infra/postgres"
	redisinfra "scholarship-exam-service/internal/infra/redis"
	transport "scholarship-exam-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the exam server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	bankID := cfg.Questions.Bank
	if bankID == "" {
		bankID = "scholarship"
	}
	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(sampleQuestions())
	if pool != nil {
		loader = pgloader.NewQuestionLoader(pool, bankID)
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questions app.QuestionRepository
	if redisClient != nil {
		questions = redisinfra.NewQuestionRepository(redisClient, loader, questionTTL)
	} else {
		questions = memory.NewQuestionRepository(loader, questionTTL)
	}

	var history app.HistoryStore
	var state app.StateStore
	if redisClient != nil {
		history = redisinfra.NewHistoryStore(redisClient, cfg.Exam.HistoryLimit)
		state = redisinfra.NewStateStore(redisClient)
	} else {
		history = memory.NewHistoryStore(cfg.Exam.HistoryLimit)
		state = memory.NewStateStore()
	}

	service := app.NewExamService(memory.NewSessionStore(), questions, history, state, app.ExamConfig{
		Structure:     cfg.Structure(),
		PassMark:      cfg.Exam.PassMark,
		HistoryWindow: cfg.Exam.HistoryWindow,
		PracticeLimit: cfg.Exam.PracticeLimit,
		TimeLimit:     config.TTLDuration(cfg.Exam.TimeLimit, 0),
		RequireReveal: cfg.Exam.RequireReveal,
	})
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting exam service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuestions provides a minimal bank so the service runs without
// Postgres; swap in the JSONB-backed loader in production.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:      "maths-001",
			Subject: "Maths",
			Chapter: 1,
			Prompt:  "What is 12 x 4?",
			Options: []domain.Option{
				{Text: "44"}, {Text: "46"}, {Text: "48"}, {Text: "52"},
			},
			Answer: "48",
		},
		{
			ID:        "eng-001",
			Subject:   "English",
			Chapter:   1,
			Prompt:    "Choose the plural of 'child'.",
			PromptAlt: "'child' എന്നതിന്റെ ബഹുവചനം തിരഞ്ഞെടുക്കുക.",
			Options: []domain.Option{
				{Text: "childs"}, {Text: "children"}, {Text: "childes"}, {Text: "childen"},
			},
			Answer: "children",
		},
		{
			ID:        "sci-001",
			Subject:   "Basic Science",
			Chapter:   2,
			Prompt:    "Which gas do plants absorb for photosynthesis?",
			PromptAlt: "പ്രകാശസംശ്ലേഷണത്തിന് സസ്യങ്ങൾ ആഗിരണം ചെയ്യുന്ന വാതകം ഏത്?",
			Options: []domain.Option{
				{Text: "Oxygen", TextAlt: "ഓക്സിജൻ"},
				{Text: "Carbon dioxide", TextAlt: "കാർബൺ ഡൈ ഓക്സൈഡ്"},
				{Text: "Nitrogen", TextAlt: "നൈട്രജൻ"},
				{Text: "Hydrogen", TextAlt: "ഹൈഡ്രജൻ"},
			},
			Answer:    "Carbon dioxide",
			AnswerAlt: "കാർബൺ ഡൈ ഓക്സൈഡ്",
		},
	}
}
