package app

import (
	"context"
	"time"

	"scholarship-exam-service/internal/domain"
	"scholarship-exam-service/internal/exam"
	"scholarship-exam-service/internal/id"
	"scholarship-exam-service/internal/result"
)

// QuestionRepository provides the loaded question bank.
type QuestionRepository interface {
	Questions(ctx context.Context) ([]domain.Question, error)
}

// HistoryStore is the bounded, newest-first log of past session outcomes.
type HistoryStore interface {
	Append(ctx context.Context, record domain.HistoryRecord) error
	ReadAll(ctx context.Context) ([]domain.HistoryRecord, error)
	Clear(ctx context.Context) error
}

// StateStore persists the language preference and the aggregate win/total
// counters between runs.
type StateStore interface {
	Language(ctx context.Context) (domain.Language, error)
	SetLanguage(ctx context.Context, lang domain.Language) error
	Stats(ctx context.Context) (domain.AggregateStats, error)
	RecordOutcome(ctx context.Context, passed bool) error
	ClearStats(ctx context.Context) error
}

// SessionStore keeps live sessions by ID (in-memory; one session per client).
type SessionStore interface {
	Put(sessionID string, session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// ExamConfig carries the exam composition and scoring policy.
type ExamConfig struct {
	Structure     []domain.ExamSpecEntry
	PassMark      int
	HistoryWindow int
	PracticeLimit int
	TimeLimit     time.Duration
	RequireReveal bool
}

// StartOptions selects what kind of attempt to compose.
type StartOptions struct {
	// Chapters filters the pool; empty means all chapters.
	Chapters []int
	// Subject switches to single-subject practice when non-empty.
	Subject string
	// Review starts a presentation session where scoring is not enforced.
	Review bool
}

// Summary is everything the caller needs to display a finished attempt.
type Summary struct {
	Record    domain.HistoryRecord      `json:"record"`
	Sheet     []domain.AnswerSheetEntry `json:"sheet"`
	Analytics domain.Analytics          `json:"analytics"`
	Stats     domain.AggregateStats     `json:"stats"`
}

// AnswerOutcome reports a scored answer together with the correct text so
// clients can highlight it immediately.
type AnswerOutcome struct {
	Correct      bool   `json:"correct"`
	SelectedText string `json:"selectedText"`
	CorrectText  string `json:"correctText"`
	Score        int    `json:"score"`
}

// ExamService wires the composer, sessions and persistence into the use
// cases the transport exposes.
type ExamService struct {
	sessions  SessionStore
	questions QuestionRepository
	history   HistoryStore
	state     StateStore
	composer  *exam.Composer
	cfg       ExamConfig
}

func NewExamService(sessions SessionStore, questions QuestionRepository, history HistoryStore, state StateStore, cfg ExamConfig) *ExamService {
	if cfg.PassMark <= 0 {
		cfg.PassMark = 70
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 10
	}
	if cfg.PracticeLimit <= 0 {
		cfg.PracticeLimit = 20
	}
	return &ExamService{
		sessions:  sessions,
		questions: questions,
		history:   history,
		state:     state,
		composer:  exam.NewComposer(),
		cfg:       cfg,
	}
}

// Start composes an exam and opens a session for it, returning the session
// ID and the first question.
func (s *ExamService) Start(ctx context.Context, opts StartOptions) (string, domain.QuestionView, error) {
	pool, err := s.questions.Questions(ctx)
	if err != nil {
		return "", domain.QuestionView{}, err
	}

	spec := s.cfg.Structure
	if opts.Subject != "" {
		spec = []domain.ExamSpecEntry{{Subject: opts.Subject, Count: s.cfg.PracticeLimit}}
	}

	composed, err := s.composer.Compose(pool, spec, opts.Chapters)
	if err != nil {
		return "", domain.QuestionView{}, err
	}

	lang := domain.LanguageEnglish
	if saved, err := s.state.Language(ctx); err == nil && saved.Valid() {
		lang = saved
	}

	session, err := NewSession(composed, SessionOptions{
		EnforceAnswers: !opts.Review,
		RequireReveal:  opts.Review && s.cfg.RequireReveal,
		TimeLimit:      s.cfg.TimeLimit,
		PassMark:       s.cfg.PassMark,
		Language:       lang,
	})
	if err != nil {
		return "", domain.QuestionView{}, err
	}

	sessionID := id.New()
	s.sessions.Put(sessionID, session)

	view, err := session.CurrentView()
	if err != nil {
		return "", domain.QuestionView{}, err
	}
	return sessionID, view, nil
}

// Answer scores the current question of the session.
func (s *ExamService) Answer(ctx context.Context, sessionID, selectedText string) (AnswerOutcome, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return AnswerOutcome{}, domain.ErrSessionNotFound
	}
	answer, err := session.Answer(selectedText)
	if err != nil {
		return AnswerOutcome{}, err
	}
	view, _ := session.CurrentView()
	correctText := session.Questions()[view.Index].CorrectText(answer.Language)
	return AnswerOutcome{
		Correct:      answer.Correct,
		SelectedText: answer.SelectedText,
		CorrectText:  correctText,
		Score:        session.Score(),
	}, nil
}

// Advance moves the session forward. When the last question is passed the
// session is summarized, persisted and discarded, and the summary returned.
func (s *ExamService) Advance(ctx context.Context, sessionID string) (domain.QuestionView, *Summary, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.QuestionView{}, nil, domain.ErrSessionNotFound
	}

	finished, err := session.Advance()
	switch err {
	case nil:
	case domain.ErrTimeExpired:
		finished = true
	case domain.ErrSessionFinished:
		// Only reachable when the limit expired during Answer: the session
		// finished but was never summarized, so it is still in the store.
		finished = true
		err = domain.ErrTimeExpired
	default:
		return domain.QuestionView{}, nil, err
	}
	if finished {
		summary, ferr := s.finish(ctx, sessionID, session)
		if ferr != nil {
			return domain.QuestionView{}, nil, ferr
		}
		return domain.QuestionView{}, summary, err
	}

	view, verr := session.CurrentView()
	if verr != nil {
		return domain.QuestionView{}, nil, verr
	}
	return view, nil, nil
}

// Reveal exposes the correct answer of the current question.
func (s *ExamService) Reveal(ctx context.Context, sessionID string) (string, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	return session.Reveal()
}

// View re-renders the current question, typically after a language change.
func (s *ExamService) View(ctx context.Context, sessionID string) (domain.QuestionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.QuestionView{}, domain.ErrSessionNotFound
	}
	return session.CurrentView()
}

// SetLanguage switches the session display language and persists the
// preference for future runs.
func (s *ExamService) SetLanguage(ctx context.Context, sessionID string, lang domain.Language) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	if err := session.SetLanguage(lang); err != nil {
		return err
	}
	return s.state.SetLanguage(ctx, lang)
}

// Abandon discards an unfinished session without recording anything.
func (s *ExamService) Abandon(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

// History returns the stored outcomes, newest first.
func (s *ExamService) History(ctx context.Context) ([]domain.HistoryRecord, error) {
	return s.history.ReadAll(ctx)
}

// ClearHistory wipes the history log and the aggregate counters.
func (s *ExamService) ClearHistory(ctx context.Context) error {
	if err := s.history.Clear(ctx); err != nil {
		return err
	}
	return s.state.ClearStats(ctx)
}

// Analytics computes longitudinal analytics over the configured window.
func (s *ExamService) Analytics(ctx context.Context) (domain.Analytics, error) {
	records, err := s.history.ReadAll(ctx)
	if err != nil {
		return domain.Analytics{}, err
	}
	return result.Analyze(records, s.cfg.HistoryWindow), nil
}

// Stats returns the persisted total/wins counters.
func (s *ExamService) Stats(ctx context.Context) (domain.AggregateStats, error) {
	return s.state.Stats(ctx)
}

func (s *ExamService) finish(ctx context.Context, sessionID string, session *Session) (*Summary, error) {
	defer s.sessions.Delete(sessionID)

	record, err := result.Summarize(session)
	if err != nil {
		return nil, err
	}
	if err := s.history.Append(ctx, record); err != nil {
		return nil, err
	}
	if err := s.state.RecordOutcome(ctx, record.Passed); err != nil {
		return nil, err
	}

	records, err := s.history.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.state.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Record:    record,
		Sheet:     session.AnswerSheet(),
		Analytics: result.Analyze(records, s.cfg.HistoryWindow),
		Stats:     stats,
	}, nil
}
