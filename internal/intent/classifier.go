// Package intent provides a simple, deterministic, concurrency-safe intent
// classifier for inbound patient messages. It scores a message against the
// example utterances of each known intent and, when the best match clears a
// confidence threshold, returns a canned support reply tagged with the intent
// label and the score.
//
// The classifier is intentionally small and dependency-free:
//
//   - No logging in the library (callers decide how/what to log)
//   - Unicode-aware tokenization with optional stop-word removal
//   - Immutable, read-only state after construction (safe for concurrent use)
//   - Deterministic scoring and tie-breaking (stable winner for equal scores)
//
// Scoring uses Jaccard similarity between the message token set and each
// utterance's token set: score = |Q ∩ U| / |Q ∪ U|. An intent's score is the
// best score over its utterances.
package intent

import (
	"regexp"
	"strings"
)

// Suggestion is a machine-generated reply proposal for an inbound message.
type Suggestion struct {
	Reply      string  `json:"reply"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Entry declares one intent: its label, example utterances, and the reply
// sent back when the intent wins.
type Entry struct {
	Name       string
	Utterances []string
	Reply      string
}

// Option configures a Classifier at construction time.
type Option func(*config)

type config struct {
	threshold float64
	stopwords map[string]struct{}
}

func defaultConfig() config {
	return config{
		threshold: 0.35,
		stopwords: nil,
	}
}

// WithThreshold sets the minimum confidence for a suggestion. Values outside
// [0,1] are ignored.
func WithThreshold(t float64) Option {
	return func(c *config) {
		if t >= 0 && t <= 1 {
			c.threshold = t
		}
	}
}

// WithStopwords removes the given words from both utterances and messages
// before scoring.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// ----------------------------------------------------------------------------
// Implementation

type utterance struct {
	tokens map[string]struct{}
	tLen   int
}

type compiled struct {
	name       string
	reply      string
	utterances []utterance
}

// Classifier matches messages to intents. It is immutable after construction
// and safe for concurrent use.
type Classifier struct {
	cfg     config
	intents []compiled
}

// New builds a Classifier from the given entries. Entries without a name,
// reply, or at least one tokenizable utterance are skipped.
func New(entries []Entry, opts ...Option) *Classifier {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	intents := make([]compiled, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		reply := strings.TrimSpace(e.Reply)
		if name == "" || reply == "" {
			continue
		}
		utts := make([]utterance, 0, len(e.Utterances))
		for _, u := range e.Utterances {
			toks := tokenize(u, cfg.stopwords)
			if len(toks) == 0 {
				continue
			}
			utts = append(utts, utterance{tokens: toks, tLen: len(toks)})
		}
		if len(utts) == 0 {
			continue
		}
		intents = append(intents, compiled{name: name, reply: reply, utterances: utts})
	}
	return &Classifier{cfg: cfg, intents: intents}
}

// Classify scores the message against every intent and returns the best
// suggestion when it clears the threshold. The second return value reports
// whether a suggestion was produced. Ties resolve to the intent declared
// first, keeping results deterministic.
func (c *Classifier) Classify(message string) (Suggestion, bool) {
	if len(c.intents) == 0 || strings.TrimSpace(message) == "" {
		return Suggestion{}, false
	}
	qTokens := tokenize(message, c.cfg.stopwords)
	if len(qTokens) == 0 {
		return Suggestion{}, false
	}
	qLen := len(qTokens)

	best := Suggestion{}
	found := false
	for _, in := range c.intents {
		score := 0.0
		for _, u := range in.utterances {
			over := overlap(qTokens, u.tokens)
			if over == 0 {
				continue
			}
			union := float64(qLen + u.tLen - over)
			if union <= 0 {
				continue
			}
			if s := float64(over) / union; s > score {
				score = s
			}
		}
		if score > best.Confidence {
			best = Suggestion{Reply: in.reply, Intent: in.name, Confidence: score}
			found = true
		}
	}
	if !found || best.Confidence < c.cfg.threshold {
		return Suggestion{}, false
	}
	return best, true
}

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	s = strings.ToLower(s)
	words := wordRE.FindAllString(s, -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
