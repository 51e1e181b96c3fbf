// Package matcher scores inbound message bodies against an account's FAQs.
package matcher

import (
	"strings"

	"whatsdesk-go/internal/model"
)

// Scores assigned by the three matching tiers. Exact always outranks
// containment, containment always outranks any keyword-only score.
const (
	scoreExact      = 100
	scoreContains   = 80
	scorePerKeyword = 20
)

// Result is the outcome of matching a message against a FAQ list.
type Result struct {
	Answer string
	Score  int
}

// Matched reports whether any FAQ scored above zero.
func (r Result) Matched() bool {
	return r.Score > 0
}

// Match scores messageBody against every FAQ and returns the best match.
// FAQs must already be filtered to active ones for the owning account.
//
// A new FAQ only replaces the current best on a strictly greater score, so
// when two FAQs tie the first one in input order wins; the caller's query
// ordering is significant. An empty question is excluded from the exact and
// containment tiers (an empty substring is contained in everything), as are
// empty keywords, so a whitespace-only message can never match.
func Match(messageBody string, faqs []model.FAQ) Result {
	normalized := normalize(messageBody)

	var best Result
	for _, faq := range faqs {
		score := scoreFAQ(normalized, faq)
		if score > best.Score {
			best = Result{Answer: faq.Answer, Score: score}
		}
	}
	return best
}

func scoreFAQ(normalizedMessage string, faq model.FAQ) int {
	question := normalize(faq.Question)

	if question != "" && normalizedMessage != "" {
		if question == normalizedMessage {
			return scoreExact
		}
		if strings.Contains(normalizedMessage, question) || strings.Contains(question, normalizedMessage) {
			return scoreContains
		}
	}

	matched := 0
	for _, keyword := range faq.Keywords {
		keyword = normalize(keyword)
		if keyword == "" {
			continue
		}
		if strings.Contains(normalizedMessage, keyword) {
			matched++
		}
	}
	return matched * scorePerKeyword
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
