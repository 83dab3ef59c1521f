package app

import (
	"strings"
	"sync"
	"time"

	"scholarship-exam-service/internal/domain"
)

// SessionOptions folds the behavioral variants of the exam UI into flags on
// one engine instead of separate code paths.
type SessionOptions struct {
	// EnforceAnswers requires every question to be answered (or revealed)
	// before advancing. Disabled for teacher/review presentations.
	EnforceAnswers bool
	// RequireReveal additionally demands an explicit reveal before an
	// unanswered question may be skipped.
	RequireReveal bool
	// TimeLimit bounds the session; zero means no limit.
	TimeLimit time.Duration
	// PassMark is the pass percentage threshold.
	PassMark int
	// Language is the initial display language.
	Language domain.Language
}

// Session is the state machine for one exam attempt. The composed question
// list is fixed at construction; all mutation goes through Answer, Advance,
// Reveal and SetLanguage.
type Session struct {
	mu   sync.Mutex
	now  func() time.Time
	opts SessionOptions

	questions []domain.Question
	answers   map[int]domain.Answer
	revealed  map[int]bool
	index     int
	score     int

	language   domain.Language
	startedAt  time.Time
	finishedAt time.Time
	finished   bool
}

func NewSession(questions []domain.Question, opts SessionOptions) (*Session, error) {
	return NewSessionWithClock(questions, opts, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(questions []domain.Question, opts SessionOptions, now func() time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, domain.ErrInvalidSession
	}
	if opts.Language == "" {
		opts.Language = domain.LanguageEnglish
	}
	fixed := make([]domain.Question, len(questions))
	copy(fixed, questions)
	return &Session{
		now:       now,
		opts:      opts,
		questions: fixed,
		answers:   make(map[int]domain.Answer),
		revealed:  make(map[int]bool),
		language:  opts.Language,
		startedAt: now(),
	}, nil
}

// Answer scores the current question against selectedText. Correctness is
// decided in the language active right now; the comparison language is
// recorded with the answer so later summaries stay consistent.
func (s *Session) Answer(selectedText string) (domain.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(); err != nil {
		return domain.Answer{}, err
	}
	if _, ok := s.answers[s.index]; ok {
		return domain.Answer{}, domain.ErrAlreadyAnswered
	}

	q := s.questions[s.index]
	selected := strings.TrimSpace(selectedText)
	answer := domain.Answer{
		SelectedText: selected,
		Correct:      selected == q.CorrectText(s.language),
		Language:     s.language,
		ElapsedMs:    s.elapsedLocked().Milliseconds(),
	}
	s.answers[s.index] = answer
	if answer.Correct {
		s.score++
	}
	return answer, nil
}

// Advance moves to the next question, finishing the session after the last
// one. Advancing past an open question is rejected while answers are
// enforced, unless the question was revealed first.
func (s *Session) Advance() (finished bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(); err != nil {
		return s.finished, err
	}
	if _, answered := s.answers[s.index]; !answered {
		needsResolution := s.opts.EnforceAnswers || s.opts.RequireReveal
		if needsResolution && !s.revealed[s.index] {
			return false, domain.ErrNotAnswered
		}
	}

	s.index++
	if s.index == len(s.questions) {
		s.finishLocked()
	}
	return s.finished, nil
}

// Reveal marks the current question's answer as shown and returns the
// correct text in the active language. Revealing unlocks Advance for an
// unanswered question.
func (s *Session) Reveal() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(); err != nil {
		return "", err
	}
	s.revealed[s.index] = true
	return s.questions[s.index].CorrectText(s.language), nil
}

// SetLanguage switches the display language. Allowed in any state; recorded
// answers keep the language they were scored under.
func (s *Session) SetLanguage(lang domain.Language) error {
	if !lang.Valid() {
		return domain.ErrUnknownLanguage
	}
	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()
	return nil
}

// ensureActiveLocked rejects transitions on finished sessions and finishes
// the session when the time limit has run out.
func (s *Session) ensureActiveLocked() error {
	if s.finished {
		return domain.ErrSessionFinished
	}
	if s.opts.TimeLimit > 0 && s.elapsedLocked() >= s.opts.TimeLimit {
		s.finishLocked()
		return domain.ErrTimeExpired
	}
	return nil
}

func (s *Session) finishLocked() {
	if s.finished {
		return
	}
	s.finished = true
	s.finishedAt = s.now()
}

func (s *Session) elapsedLocked() time.Duration {
	if s.finished {
		return s.finishedAt.Sub(s.startedAt)
	}
	return s.now().Sub(s.startedAt)
}

// Elapsed is the wall-clock duration of the attempt, frozen once finished.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

// Remaining reports time left under the session limit, or zero when no
// limit is set.
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.TimeLimit <= 0 {
		return 0
	}
	left := s.opts.TimeLimit - s.elapsedLocked()
	if left < 0 {
		return 0
	}
	return left
}

func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

func (s *Session) Total() int {
	return len(s.questions)
}

func (s *Session) Language() domain.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

func (s *Session) PassMark() int {
	return s.opts.PassMark
}

// Questions returns the fixed composed question list.
func (s *Session) Questions() []domain.Question {
	return s.questions
}

// Answers returns a copy of the recorded answers keyed by question index.
func (s *Session) Answers() map[int]domain.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]domain.Answer, len(s.answers))
	for i, a := range s.answers {
		out[i] = a
	}
	return out
}

// StartedAt and FinishedAt expose the session timestamps; FinishedAt is zero
// while active.
func (s *Session) StartedAt() time.Time { return s.startedAt }

func (s *Session) FinishedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishedAt
}

// CurrentView renders the current question in the active language.
func (s *Session) CurrentView() (domain.QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return domain.QuestionView{}, domain.ErrSessionFinished
	}
	q := s.questions[s.index]
	view := domain.QuestionView{
		Index:   s.index,
		Total:   len(s.questions),
		Subject: q.Subject,
		Chapter: q.Chapter,
		Prompt:  displayText(q.Prompt, q.PromptAlt, s.language),
		Options: make([]string, 0, len(q.Options)),
	}
	if q.HasImage() {
		view.ImagePath = q.ImagePath
	}
	for _, opt := range q.Options {
		view.Options = append(view.Options, displayText(opt.Text, opt.TextAlt, s.language))
	}
	return view, nil
}

// AnswerSheet renders the full per-question review in the active language.
func (s *Session) AnswerSheet() []domain.AnswerSheetEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheet := make([]domain.AnswerSheetEntry, 0, len(s.questions))
	for i, q := range s.questions {
		entry := domain.AnswerSheetEntry{
			Index:       i,
			Subject:     q.Subject,
			Prompt:      displayText(q.Prompt, q.PromptAlt, s.language),
			Options:     make([]string, 0, len(q.Options)),
			CorrectText: q.CorrectText(s.language),
		}
		for _, opt := range q.Options {
			entry.Options = append(entry.Options, displayText(opt.Text, opt.TextAlt, s.language))
		}
		if a, ok := s.answers[i]; ok {
			entry.Answered = true
			entry.SelectedText = a.SelectedText
			entry.Correct = a.Correct
		}
		sheet = append(sheet, entry)
	}
	return sheet
}

// displayText picks the alternate-language text when requested and present.
func displayText(text, alt string, lang domain.Language) string {
	if lang == domain.LanguageMalayalam && alt != "" {
		return alt
	}
	return text
}
