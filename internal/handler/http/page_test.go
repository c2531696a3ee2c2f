package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-summarizer/internal/domain/entity"
	"content-summarizer/internal/usecase/summarize"
)

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPageHandler_Get(t *testing.T) {
	svc := &fakeSummarizer{}
	h := &PageHandler{Service: svc, Models: newModels(true)}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `<option value="gemma-7b-it" selected>Gemma 7B IT</option>`)
	assert.Contains(t, body, `<option value="llama-3.1-70b-versatile">`)
	assert.Contains(t, body, `value="auto" checked`)
	assert.Contains(t, body, "Paste your YouTube video or article URL here...")
	assert.NotContains(t, body, `class="error"`)
	assert.NotContains(t, body, "success-box")
	assert.Empty(t, svc.requests())
}

func TestPageHandler_Get_UnconfiguredModelsDisabled(t *testing.T) {
	h := &PageHandler{Service: &fakeSummarizer{}, Models: newModels(false)}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<option value="gemma-7b-it" selected disabled>`)
}

func TestPageHandler_Post_ArticleSuccess(t *testing.T) {
	svc := &fakeSummarizer{result: articleResult()}
	h := &PageHandler{Service: svc, Models: newModels(true)}

	rec := postForm(h, "/", url.Values{
		"url":          {"  https://example.com/post  "},
		"content_type": {"article"},
		"model":        {"llama-3.1-8b-instant"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<div class="success-box">The article explains &lt;b&gt;chunking&lt;/b&gt;.</div>`)
	assert.Contains(t, body, `<p class="title">Chunking text</p>`)
	assert.Contains(t, body, "3 chunk(s) summarized with gemma-7b-it in 2s")
	assert.Contains(t, body, `<form method="post" action="/download">`)
	assert.Contains(t, body, `value="https://example.com/post"`)
	assert.Contains(t, body, `value="article" checked`)
	assert.Contains(t, body, `<option value="llama-3.1-8b-instant" selected>`)
	assert.NotContains(t, body, `class="video card"`)

	reqs := svc.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, summarize.Request{
		URL:         "https://example.com/post",
		ContentType: entity.ContentTypeArticle,
		Model:       "llama-3.1-8b-instant",
	}, reqs[0])
}

func TestPageHandler_Post_VideoCard(t *testing.T) {
	svc := &fakeSummarizer{result: videoResult()}
	h := &PageHandler{Service: svc, Models: newModels(true)}

	rec := postForm(h, "/", url.Values{"url": {"https://youtu.be/dQw4w9WgXcQ"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<img src="https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg" alt="Thumbnail of Go talk">`)
	assert.Contains(t, body, "<dd>1:02:05</dd>")
	assert.Contains(t, body, "<dd>Gophers</dd>")
	assert.NotContains(t, body, `<p class="title">`)
	assert.Contains(t, body, `<option value="gemma-7b-it" selected>`, "the default stays selected")

	reqs := svc.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, entity.ContentTypeAuto, reqs[0].ContentType)
	assert.Empty(t, reqs[0].Model)
}

func TestPageHandler_Post_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantText   []string
		notText    []string
	}{
		{
			name:       "invalid url",
			err:        fmt.Errorf("%w: bad scheme", summarize.ErrInvalidURL),
			wantStatus: http.StatusBadRequest,
			wantText:   []string{MsgInvalidURL},
		},
		{
			name:       "video unavailable",
			err:        fmt.Errorf("%w: private video", summarize.ErrVideoUnavailable),
			wantStatus: http.StatusBadGateway,
			wantText:   []string{"Error accessing YouTube video. Please check if the video exists and is publicly available."},
			notText:    []string{"private video"},
		},
		{
			name:       "article unavailable shows hints",
			err:        fmt.Errorf("%w: status 403", summarize.ErrArticleUnavailable),
			wantStatus: http.StatusBadGateway,
			wantText: []string{
				MsgArticleUnavailable,
				"<li>The URL is accessible</li>",
				"<li>The website allows content extraction</li>",
				"<li>The article is not behind a paywall</li>",
			},
		},
		{
			name:       "empty article",
			err:        summarize.ErrNoContent,
			wantStatus: http.StatusUnprocessableEntity,
			wantText:   []string{"Unable to extract content from this article. Please check if the URL is accessible."},
		},
		{
			name:       "generic error masks keys",
			err:        fmt.Errorf("%w: auth failed for gsk_abcdefghijklmnop", summarize.ErrSummarizationFailed),
			wantStatus: http.StatusInternalServerError,
			wantText:   []string{"An error occurred: ", "gsk_****"},
			notText:    []string{"gsk_abcdefghijklmnop"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &PageHandler{Service: &fakeSummarizer{err: tt.err}, Models: newModels(true)}

			rec := postForm(h, "/", url.Values{"url": {"https://example.com/post"}})

			require.Equal(t, tt.wantStatus, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, `role="alert"`)
			for _, s := range tt.wantText {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.notText {
				assert.NotContains(t, body, s)
			}
			assert.NotContains(t, body, "success-box")
		})
	}
}

func TestPageHandler_Post_InvalidContentType(t *testing.T) {
	svc := &fakeSummarizer{result: articleResult()}
	h := &PageHandler{Service: svc, Models: newModels(true)}

	rec := postForm(h, "/", url.Values{"url": {"https://example.com"}, "content_type": {"podcast"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgInvalidContentType)
	assert.Empty(t, svc.requests())
}

func TestStylesheetHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	StylesheetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/page.css", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), ".success-box")
}
