// Package result turns finished sessions into history records and computes
// longitudinal analytics over the stored history.
package result

import (
	"math"
	"sort"
	"time"

	"scholarship-exam-service/internal/domain"
)

// Session is the read surface the aggregator needs from a finished attempt.
// *app.Session satisfies it.
type Session interface {
	Finished() bool
	Score() int
	Total() int
	Questions() []domain.Question
	Answers() map[int]domain.Answer
	StartedAt() time.Time
	FinishedAt() time.Time
	PassMark() int
}

// Summarize converts a finished session into its persisted history record.
func Summarize(s Session) (domain.HistoryRecord, error) {
	if !s.Finished() {
		return domain.HistoryRecord{}, domain.ErrSessionNotFinished
	}

	questions := s.Questions()
	answers := s.Answers()
	perSubject := make(map[string]domain.SubjectTally)
	for i := range questions {
		a, ok := answers[i]
		if !ok {
			continue
		}
		tally := perSubject[questions[i].Subject]
		if a.Correct {
			tally.Correct++
		} else {
			tally.Wrong++
		}
		perSubject[questions[i].Subject] = tally
	}

	percent := roundedPercent(s.Score(), s.Total())
	return domain.HistoryRecord{
		Date:       s.FinishedAt().UTC().Format(time.RFC3339),
		Score:      s.Score(),
		Total:      s.Total(),
		Percent:    percent,
		Passed:     percent >= s.PassMark(),
		DurationMs: s.FinishedAt().Sub(s.StartedAt()).Milliseconds(),
		PerSubject: perSubject,
	}, nil
}

// Analyze aggregates the newest window records into average score and
// per-subject accuracy. Strongest/weakest ties resolve to the subject
// encountered first; within a single record, subjects are visited in sorted
// order since the persisted form is an unordered JSON object.
func Analyze(history []domain.HistoryRecord, window int) domain.Analytics {
	if window > 0 && len(history) > window {
		history = history[:window]
	}

	sumScore, sumTotal := 0, 0
	tallies := make(map[string]domain.SubjectTally)
	var order []string
	for _, rec := range history {
		sumScore += rec.Score
		sumTotal += rec.Total

		subjects := make([]string, 0, len(rec.PerSubject))
		for subject := range rec.PerSubject {
			subjects = append(subjects, subject)
		}
		sort.Strings(subjects)
		for _, subject := range subjects {
			if _, seen := tallies[subject]; !seen {
				order = append(order, subject)
			}
			t := tallies[subject]
			t.Correct += rec.PerSubject[subject].Correct
			t.Wrong += rec.PerSubject[subject].Wrong
			tallies[subject] = t
		}
	}

	analytics := domain.Analytics{
		Sessions:            len(history),
		AverageScorePercent: roundedPercent(sumScore, sumTotal),
		StrongestSubject:    domain.NoSubject,
		WeakestSubject:      domain.NoSubject,
	}

	best, worst := -1, 101
	for _, subject := range order {
		t := tallies[subject]
		total := t.Correct + t.Wrong
		if total == 0 {
			continue
		}
		percent := roundedPercent(t.Correct, total)
		analytics.Subjects = append(analytics.Subjects, domain.SubjectAccuracy{
			Subject: subject,
			Correct: t.Correct,
			Total:   total,
			Percent: percent,
		})
		if percent > best {
			best = percent
			analytics.StrongestSubject = subject
		}
		if percent < worst {
			worst = percent
			analytics.WeakestSubject = subject
		}
	}
	return analytics
}

func roundedPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
