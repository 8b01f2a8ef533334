package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jask/mindmap/internal/llm"
)

// Fallback is returned whenever a relation fetch fails for any reason.
var Fallback = []string{"Error", "Retry", "Wait"}

// Relations wraps an llm.Client so that callers always get a usable word list.
type Relations struct {
	client  llm.Client
	limiter *rate.Limiter
	log     *zap.Logger

	mu          sync.RWMutex
	model       string
	temperature float64
	timeout     time.Duration
}

// RelationsOption configures a Relations service.
type RelationsOption func(*Relations)

// WithRateLimit caps outgoing calls per second. Zero or less disables limiting.
func WithRateLimit(perSecond float64) RelationsOption {
	return func(r *Relations) {
		if perSecond <= 0 {
			r.limiter = nil
			return
		}
		r.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithTimeout bounds each call. Zero leaves timing to the client.
func WithTimeout(d time.Duration) RelationsOption {
	return func(r *Relations) { r.timeout = d }
}

func WithLogger(l *zap.Logger) RelationsOption {
	return func(r *Relations) { r.log = l }
}

// NewRelations builds the service. client may be nil, in which case every call falls back.
func NewRelations(client llm.Client, model string, temperature float64, opts ...RelationsOption) *Relations {
	r := &Relations{
		client:      client,
		log:         zap.NewNop(),
		model:       model,
		temperature: temperature,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetModel switches the model used by subsequent calls.
func (r *Relations) SetModel(model string, temperature float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model = strings.TrimSpace(model)
	r.temperature = temperature
}

// Model reports the model currently in use.
func (r *Relations) Model() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.model
}

// Related returns words related to word, minus word itself, deduplicated
// case-insensitively. It never fails: errors yield Fallback.
func (r *Relations) Related(ctx context.Context, word string) []string {
	start := time.Now()
	words, err := r.fetch(ctx, word)
	if err != nil {
		r.log.Warn("relation fetch failed",
			zap.String("word", word),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return append([]string(nil), Fallback...)
	}
	out := Clean(word, words)
	r.log.Info("relation fetch",
		zap.String("word", word),
		zap.Int("returned", len(words)),
		zap.Int("kept", len(out)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out
}

func (r *Relations) fetch(ctx context.Context, word string) ([]string, error) {
	if r.client == nil {
		return nil, llm.ErrNoAPIKey
	}
	r.mu.RLock()
	req := llm.RelatedRequest{Word: word, Model: r.model, Temperature: r.temperature}
	timeout := r.timeout
	r.mu.RUnlock()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return r.client.RelatedWords(ctx, req)
}

// Clean trims entries, drops blanks and any entry equal to subject, and removes
// case-insensitive duplicates keeping the first spelling seen.
func Clean(subject string, words []string) []string {
	subject = strings.ToLower(strings.TrimSpace(subject))
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		key := strings.ToLower(w)
		if key == "" || key == subject {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, w)
	}
	return out
}
