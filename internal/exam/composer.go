package exam

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"scholarship-exam-service/internal/domain"
)

// Composer assembles a fixed-composition exam from a question pool.
type Composer struct {
	rnd *rand.Rand
}

func NewComposer() *Composer {
	return NewComposerWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewComposerWithRand allows a seeded source for deterministic tests.
func NewComposerWithRand(rnd *rand.Rand) *Composer {
	return &Composer{rnd: rnd}
}

// Compose draws questions per spec entry: filter by subject (and chapters,
// when the filter is non-empty), shuffle, take at most entry.Count. Blocks
// keep spec order; short pools are never padded with duplicates. An empty
// overall result yields domain.ErrEmptyExam.
func (c *Composer) Compose(pool []domain.Question, spec []domain.ExamSpecEntry, chapters []int) ([]domain.Question, error) {
	chapterSet := make(map[int]struct{}, len(chapters))
	for _, ch := range chapters {
		chapterSet[ch] = struct{}{}
	}

	var composed []domain.Question
	for _, entry := range spec {
		if entry.Count <= 0 {
			continue
		}
		block := make([]domain.Question, 0)
		for _, q := range pool {
			if q.Subject != entry.Subject {
				continue
			}
			if len(chapterSet) > 0 {
				if _, ok := chapterSet[q.Chapter]; !ok {
					continue
				}
			}
			if err := Validate(q); err != nil {
				return nil, err
			}
			block = append(block, q)
		}
		c.shuffle(block)
		if len(block) > entry.Count {
			block = block[:entry.Count]
		}
		composed = append(composed, block...)
	}

	if len(composed) == 0 {
		return nil, domain.ErrEmptyExam
	}
	return composed, nil
}

// shuffle performs an in-place Fisher-Yates permutation.
func (c *Composer) shuffle(qs []domain.Question) {
	for i := len(qs) - 1; i > 0; i-- {
		j := c.rnd.Intn(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
}

// Validate checks that a question can be scored: exactly four options and a
// trimmed, case-sensitive match between the answer text and one option (the
// Malayalam answer likewise, when present).
func Validate(q domain.Question) error {
	if len(q.Options) != 4 {
		return fmt.Errorf("%w: question %s has %d options, want 4", domain.ErrMalformedQuestion, q.ID, len(q.Options))
	}
	if !matchesOption(q, strings.TrimSpace(q.Answer), false) {
		return fmt.Errorf("%w: question %s answer matches no option", domain.ErrMalformedQuestion, q.ID)
	}
	if alt := strings.TrimSpace(q.AnswerAlt); alt != "" && !matchesOption(q, alt, true) {
		return fmt.Errorf("%w: question %s malayalam answer matches no option", domain.ErrMalformedQuestion, q.ID)
	}
	return nil
}

func matchesOption(q domain.Question, answer string, alt bool) bool {
	for _, opt := range q.Options {
		text := opt.Text
		if alt {
			text = opt.TextAlt
		}
		if strings.TrimSpace(text) == answer {
			return true
		}
	}
	return false
}
