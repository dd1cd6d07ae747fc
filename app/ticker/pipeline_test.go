package ticker

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubFetcher struct {
	items []Item
	err   error
	calls int
	panic bool
}

func (f *stubFetcher) Run(ctx context.Context, opts Options) ([]Item, error) {
	f.calls++
	if f.panic {
		panic("boom")
	}
	return f.items, f.err
}

func TestPipelineRendersTicker(t *testing.T) {
	fetcher := &stubFetcher{items: []Item{{Title: "Hello", Link: "https://example.com"}}}

	out := NewPipeline(fetcher).Run(context.Background(), KindTicker, Options{RSS: "feed"})

	assert.Equal(t, StateRendered, out.State)
	assert.Equal(t, 60, out.PacingSeconds)
	assert.Contains(t, out.Markup, "Hello")
}

func TestPipelineErrorsBecomeMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"fetch error", &FetchError{StatusCode: 500}, "500"},
		{"provider error", &ProviderError{Message: "quota exceeded"}, "quota exceeded"},
		{"transport error", errors.New("dial tcp: <refused>"), "dial tcp: &lt;refused&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewPipeline(&stubFetcher{err: tt.err}).Run(context.Background(), KindTicker, Options{RSS: "feed"})

			assert.Equal(t, StateErrored, out.State)
			assert.Contains(t, out.Markup, tt.want)
			assert.Contains(t, out.Text, ErrorTextPrefix)
		})
	}
}

func TestPipelineRecoversPanics(t *testing.T) {
	out := NewPipeline(&stubFetcher{panic: true}).Run(context.Background(), KindCard, Options{RSS: "feed"})

	assert.Equal(t, StateErrored, out.State)
	assert.Contains(t, out.Text, "boom")
}

func TestPipelineStaticDoesNotFetch(t *testing.T) {
	fetcher := &stubFetcher{}
	out := NewPipeline(fetcher).Run(context.Background(), KindStatic, Options{})

	assert.Equal(t, StateRendered, out.State)
	assert.Equal(t, 0, fetcher.calls)
}

func TestPipelineEndToEnd(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		state  State
		want   string
	}{
		{"empty feed", http.StatusOK, `{"status":"ok","items":[]}`, StateEmpty, EmptyText},
		{"quota", http.StatusOK, `{"status":"error","message":"quota exceeded"}`, StateErrored, "quota exceeded"},
		{"server error", http.StatusInternalServerError, `{}`, StateErrored, "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := newProvider(t, tt.status, tt.body)
			pipeline := NewPipeline(NewFetcher(srv.Client(), srv.URL, "test", ""))

			out := pipeline.Run(context.Background(), KindTicker, Options{RSS: "https://example.com/feed.xml"})

			assert.Equal(t, tt.state, out.State)
			assert.Contains(t, out.Markup, tt.want)
		})
	}
}
