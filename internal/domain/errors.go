package domain

import "errors"

var (
	// ErrEmptyExam is returned when composition matched no questions at all.
	ErrEmptyExam = errors.New("exam composition produced no questions")
	// ErrMalformedQuestion indicates a question whose answer text matches none of its options.
	ErrMalformedQuestion = errors.New("malformed question")
	// ErrInvalidSession is returned when a session is created without questions.
	ErrInvalidSession = errors.New("session requires at least one question")
	// ErrAlreadyAnswered rejects a second answer to the same question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotAnswered rejects advancing past an open question when scoring is enforced.
	ErrNotAnswered = errors.New("current question not answered")
	// ErrSessionFinished rejects transitions on a finished session.
	ErrSessionFinished = errors.New("session already finished")
	// ErrSessionNotFinished rejects summarizing a session that is still active.
	ErrSessionNotFinished = errors.New("session not finished")
	// ErrTimeExpired indicates the session time limit ran out.
	ErrTimeExpired = errors.New("session time limit expired")
	// ErrSessionNotFound is returned when no session exists for the given ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownLanguage rejects language tags outside the supported set.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrQuestionSource indicates the question bank could not be loaded.
	ErrQuestionSource = errors.New("question bank unavailable")
)
