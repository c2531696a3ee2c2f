package summarize

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"content-summarizer/internal/domain/entity"
	"content-summarizer/internal/infra/llm"
)

// scriptedModel answers each prompt with "summary N" and records the prompts.
type scriptedModel struct {
	name string
	err  error

	mu      sync.Mutex
	prompts []string
}

func (m *scriptedModel) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return fmt.Sprintf("  summary %d  ", len(m.prompts)), nil
}

func (m *scriptedModel) Name() string { return m.name }

func (m *scriptedModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

type fakeRegistry struct {
	models map[string]llm.ChatModel
	def    string
	err    error
}

func newFakeRegistry(models ...*scriptedModel) *fakeRegistry {
	r := &fakeRegistry{models: make(map[string]llm.ChatModel)}
	for i, m := range models {
		if i == 0 {
			r.def = m.name
		}
		r.models[m.name] = m
	}
	return r
}

func (r *fakeRegistry) Get(_ context.Context, name string) (llm.ChatModel, error) {
	if r.err != nil {
		return nil, r.err
	}
	if name == "" {
		name = r.def
	}
	m, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", llm.ErrUnknownModel, name)
	}
	return m, nil
}

type fakeVideoLoader struct {
	info  *entity.VideoInfo
	docs  []entity.Document
	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func (l *fakeVideoLoader) Load(ctx context.Context, url string) (*entity.VideoInfo, []entity.Document, error) {
	l.calls.Add(1)
	if l.gate != nil {
		<-l.gate
	}
	if l.err != nil {
		return nil, nil, l.err
	}
	return l.info, l.docs, nil
}

type fakeArticleLoader struct {
	docs    []entity.Document
	err     error
	calls   atomic.Int32
	started chan struct{}
	gate    chan struct{}
}

func (l *fakeArticleLoader) Load(ctx context.Context, url string) ([]entity.Document, error) {
	if l.calls.Add(1) == 1 && l.started != nil {
		close(l.started)
	}
	if l.gate != nil {
		<-l.gate
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.docs, nil
}

func articleDoc(url string, runes int) entity.Document {
	return entity.NewDocument(strings.Repeat("a", runes), url).WithMeta(entity.MetaTitle, "An Article")
}
