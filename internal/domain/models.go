package domain

import "strings"

// Language selects which side of the bilingual question text is displayed.
type Language string

const (
	LanguageEnglish   Language = "en"
	LanguageMalayalam Language = "ml"
)

// Valid reports whether lang is one of the supported display languages.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageMalayalam
}

// Option is one of the four answer choices of a question. TextAlt is the
// Malayalam rendering and may be empty, in which case display falls back to
// Text.
type Option struct {
	Text    string `json:"text"`
	TextAlt string `json:"textAlt,omitempty"`
}

// Question is a single MCQ item of the question bank.
type Question struct {
	ID        string   `json:"id"`
	Subject   string   `json:"subject"`
	Chapter   int      `json:"chapter"`
	Prompt    string   `json:"prompt"`
	PromptAlt string   `json:"promptAlt,omitempty"`
	Options   []Option `json:"options"`
	Answer    string   `json:"answer"`
	AnswerAlt string   `json:"answerAlt,omitempty"`
	ImagePath string   `json:"imagePath,omitempty"`
}

// HasImage reports whether the question carries a usable image reference.
// Some bank exports store the literal string "null" for questions without one.
func (q Question) HasImage() bool {
	return q.ImagePath != "" && q.ImagePath != "null"
}

// CorrectText returns the canonical correct answer text for the given
// display language, falling back to the primary text when no Malayalam
// answer is recorded.
func (q Question) CorrectText(lang Language) string {
	if lang == LanguageMalayalam && q.AnswerAlt != "" {
		return strings.TrimSpace(q.AnswerAlt)
	}
	return strings.TrimSpace(q.Answer)
}

// ExamSpecEntry is one block of the exam composition: how many questions of
// a subject the exam draws. Entry order fixes presentation order.
type ExamSpecEntry struct {
	Subject string `json:"subject" yaml:"subject"`
	Count   int    `json:"count" yaml:"count"`
}

// Answer records how a session question was answered.
type Answer struct {
	SelectedText string   `json:"selectedText"`
	Correct      bool     `json:"correct"`
	Language     Language `json:"language"`
	ElapsedMs    int64    `json:"elapsedMs"`
}

// SubjectTally counts correct and wrong answers for one subject.
type SubjectTally struct {
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

// HistoryRecord is the persisted summary of one finished session.
type HistoryRecord struct {
	Date       string                  `json:"date"`
	Score      int                     `json:"score"`
	Total      int                     `json:"total"`
	Percent    int                     `json:"percent"`
	Passed     bool                    `json:"passed"`
	DurationMs int64                   `json:"durationMs"`
	PerSubject map[string]SubjectTally `json:"perSubject"`
}

// NoSubject is the sentinel reported when analytics has no subject data to
// rank.
const NoSubject = "N/A"

// SubjectAccuracy is the aggregate accuracy of one subject across a history
// window.
type SubjectAccuracy struct {
	Subject string `json:"subject"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
}

// Analytics summarizes performance across recent history records.
type Analytics struct {
	Sessions            int               `json:"sessions"`
	AverageScorePercent int               `json:"averageScorePercent"`
	Subjects            []SubjectAccuracy `json:"subjects"`
	StrongestSubject    string            `json:"strongestSubject"`
	WeakestSubject      string            `json:"weakestSubject"`
}

// AggregateStats is the convenience counter cache kept alongside history.
type AggregateStats struct {
	Total int `json:"total"`
	Wins  int `json:"wins"`
}

// QuestionView is the language-resolved presentation of the current question.
// Options carry text only; correctness is never exposed while the question is
// open.
type QuestionView struct {
	Index     int      `json:"index"`
	Total     int      `json:"total"`
	Subject   string   `json:"subject"`
	Chapter   int      `json:"chapter"`
	Prompt    string   `json:"prompt"`
	Options   []string `json:"options"`
	ImagePath string   `json:"imagePath,omitempty"`
}

// AnswerSheetEntry is one row of the post-exam answer sheet.
type AnswerSheetEntry struct {
	Index        int      `json:"index"`
	Subject      string   `json:"subject"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectText  string   `json:"correctText"`
	SelectedText string   `json:"selectedText,omitempty"`
	Correct      bool     `json:"correct"`
	Answered     bool     `json:"answered"`
}
