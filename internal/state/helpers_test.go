package state

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/practicum-bots/homework-notifier/internal/logger"
	"github.com/practicum-bots/homework-notifier/internal/notifier"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fetchResult struct {
	body  string
	err   error
	panic bool
}

// fakeFetcher replays results in order and records the watermark it was
// called with.
type fakeFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	since   []int64
}

func (f *fakeFetcher) Fetch(_ context.Context, since int64) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.since = append(f.since, since)
	if len(f.results) == 0 {
		return nil, errors.New("fakeFetcher: no more results")
	}
	r := f.results[0]
	f.results = f.results[1:]
	if r.panic {
		panic("fetcher exploded")
	}
	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.body), nil
}

// fakeNotifier records every message; fail decides per message whether
// delivery fails.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	fail     func(text string) bool
}

func (n *fakeNotifier) Name() string { return "fake" }

func (n *fakeNotifier) Notify(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	if n.fail != nil && n.fail(text) {
		return errors.Join(notifier.ErrDelivery, errors.New("chat not found"))
	}
	return nil
}

func (n *fakeNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

func testContext() context.Context {
	l := zerolog.Nop()
	return logger.ToContext(context.Background(), &l)
}

func quoteJSON(t *testing.T, s string) string {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return string(b)
}
