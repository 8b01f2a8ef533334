package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/jask/mindmap/internal/llm"
)

type stubClient struct {
	mu    sync.Mutex
	words []string
	err   error
	reqs  []llm.RelatedRequest
	hold  chan struct{}
}

func (s *stubClient) RelatedWords(ctx context.Context, req llm.RelatedRequest) ([]string, error) {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()
	if s.hold != nil {
		select {
		case <-s.hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.words, s.err
}

func TestRelatedDedupesAndDropsSubject(t *testing.T) {
	c := &stubClient{words: []string{"Cat", "cat", "Dog"}}
	r := NewRelations(c, "m", 0.8, WithLogger(zaptest.NewLogger(t)))
	got := r.Related(context.Background(), "Cat")
	if !reflect.DeepEqual(got, []string{"Dog"}) {
		t.Fatalf("Related = %#v, want [Dog]", got)
	}
}

func TestRelatedPassesModelAndTemperature(t *testing.T) {
	c := &stubClient{words: []string{"Wave"}}
	r := NewRelations(c, "gemini-x", 0.8)
	r.Related(context.Background(), "Ocean")
	r.SetModel(" gemini-y ", 0.5)
	r.Related(context.Background(), "Ocean")

	if len(c.reqs) != 2 {
		t.Fatalf("calls = %d, want 2", len(c.reqs))
	}
	if c.reqs[0].Model != "gemini-x" || c.reqs[0].Temperature != 0.8 || c.reqs[0].Word != "Ocean" {
		t.Fatalf("first request = %+v", c.reqs[0])
	}
	if c.reqs[1].Model != "gemini-y" || c.reqs[1].Temperature != 0.5 {
		t.Fatalf("second request = %+v", c.reqs[1])
	}
	if r.Model() != "gemini-y" {
		t.Fatalf("Model() = %q", r.Model())
	}
}

func TestRelatedFallsBackOnAnyFailure(t *testing.T) {
	cases := []struct {
		name   string
		client llm.Client
	}{
		{name: "nil client", client: nil},
		{name: "network", client: &stubClient{err: errors.New("dial tcp: refused")}},
		{name: "schema", client: &stubClient{err: errors.New("llm: response violates schema")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRelations(tc.client, "m", 0.8)
			got := r.Related(context.Background(), "Ocean")
			if !reflect.DeepEqual(got, []string{"Error", "Retry", "Wait"}) {
				t.Fatalf("Related = %#v", got)
			}
		})
	}
}

func TestRelatedFallbackIsACopy(t *testing.T) {
	r := NewRelations(nil, "m", 0.8)
	got := r.Related(context.Background(), "x")
	got[0] = "mutated"
	if Fallback[0] != "Error" {
		t.Fatalf("Fallback was mutated through a returned slice")
	}
}

func TestRelatedTimeoutFallsBack(t *testing.T) {
	c := &stubClient{hold: make(chan struct{})}
	r := NewRelations(c, "m", 0.8, WithTimeout(10*time.Millisecond))
	got := r.Related(context.Background(), "Ocean")
	if !reflect.DeepEqual(got, Fallback) {
		t.Fatalf("Related = %#v, want fallback", got)
	}
}

func TestRelatedRateLimitCancelledFallsBack(t *testing.T) {
	c := &stubClient{words: []string{"Wave"}}
	r := NewRelations(c, "m", 0.8, WithRateLimit(0.001))
	if got := r.Related(context.Background(), "Ocean"); !reflect.DeepEqual(got, []string{"Wave"}) {
		t.Fatalf("first call = %#v", got)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := r.Related(ctx, "Ocean"); !reflect.DeepEqual(got, Fallback) {
		t.Fatalf("limited call = %#v, want fallback", got)
	}
	if len(c.reqs) != 1 {
		t.Fatalf("client calls = %d, want 1", len(c.reqs))
	}
}

func TestClean(t *testing.T) {
	got := Clean(" ocean ", []string{" Wave ", "", "OCEAN", "wave", "Coral Reef", "  "})
	want := []string{"Wave", "Coral Reef"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Clean = %#v, want %#v", got, want)
	}
	if got := Clean("x", nil); len(got) != 0 {
		t.Fatalf("Clean(nil) = %#v", got)
	}
}
