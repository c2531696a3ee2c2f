package http

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"content-summarizer/internal/domain/entity"
	"content-summarizer/internal/handler/http/respond"
	"content-summarizer/internal/infra/llm"
	"content-summarizer/internal/usecase/summarize"
)

//go:embed assets/page.html assets/page.css
var assets embed.FS

var pageTemplate = template.Must(template.ParseFS(assets, "assets/page.html"))

// Summarizer runs the summarization pipeline.
type Summarizer interface {
	Summarize(ctx context.Context, req summarize.Request) (*summarize.Result, error)
}

// ModelSource lists the selectable models and whether their providers have keys.
type ModelSource interface {
	Catalog() *llm.Catalog
	Configured(provider string) bool
}

type modelOption struct {
	llm.Model
	Available bool
}

type contentTypeOption struct {
	Value string
	Label string
}

var contentTypeOptions = []contentTypeOption{
	{Value: string(entity.ContentTypeAuto), Label: "Detect automatically"},
	{Value: string(entity.ContentTypeVideo), Label: "YouTube Video"},
	{Value: string(entity.ContentTypeArticle), Label: "Web Article"},
}

type pageData struct {
	Models       []modelOption
	Selected     string
	ContentTypes []contentTypeOption
	ContentType  string
	URL          string
	Result       *summarize.Result
	Error        *respond.AppError
}

// PageHandler serves the single-page UI: GET renders the form, POST runs a
// summary and renders the result or error on the same page.
type PageHandler struct {
	Service Summarizer
	Models  ModelSource
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := h.newPageData()

	if r.Method == http.MethodPost {
		status, err := h.handleSubmit(r, &data)
		if err != nil {
			data.Error = err
		}
		h.render(w, status, data)
		return
	}

	h.render(w, http.StatusOK, data)
}

// RenderTimeout shows MsgTimeout on a fresh page. It is the TimeoutWith
// response for form submissions, so it leaves the request untouched.
func (h *PageHandler) RenderTimeout(w http.ResponseWriter, _ *http.Request) {
	data := h.newPageData()
	data.Error = respond.NewAppError(http.StatusGatewayTimeout, MsgTimeout, context.DeadlineExceeded)
	h.render(w, http.StatusGatewayTimeout, data)
}

func (h *PageHandler) handleSubmit(r *http.Request, data *pageData) (int, *respond.AppError) {
	if err := r.ParseForm(); err != nil {
		return http.StatusBadRequest, respond.NewAppError(http.StatusBadRequest, MsgInvalidURL, err)
	}

	data.URL = strings.TrimSpace(r.PostForm.Get("url"))
	// An empty model is passed through so the service picks the default.
	model := strings.TrimSpace(r.PostForm.Get("model"))
	if model != "" {
		data.Selected = model
	}

	ct, err := entity.ParseContentType(r.PostForm.Get("content_type"))
	if err != nil {
		return http.StatusBadRequest, respond.NewAppError(http.StatusBadRequest, MsgInvalidContentType, err)
	}
	data.ContentType = string(ct)

	res, err := h.Service.Summarize(r.Context(), summarize.Request{
		URL:         data.URL,
		ContentType: ct,
		Model:       model,
	})
	if err != nil {
		appErr := summarizeError(err)
		logFailure(r.Context(), appErr)
		return appErr.Code, appErr
	}
	data.Result = res
	return http.StatusOK, nil
}

func (h *PageHandler) newPageData() pageData {
	catalog := h.Models.Catalog()
	models := catalog.Models()
	options := make([]modelOption, 0, len(models))
	for _, m := range models {
		options = append(options, modelOption{Model: m, Available: h.Models.Configured(m.Provider)})
	}
	return pageData{
		Models:       options,
		Selected:     catalog.Default().Name,
		ContentTypes: contentTypeOptions,
		ContentType:  string(entity.ContentTypeAuto),
	}
}

func (h *PageHandler) render(w http.ResponseWriter, status int, data pageData) {
	// Render to a buffer so a template failure can still become a clean 500.
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		slog.Error("render page", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// StylesheetHandler serves the page stylesheet from the embedded assets.
func StylesheetHandler() http.Handler {
	css, err := assets.ReadFile("assets/page.css")
	if err != nil {
		panic(err)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(css)
	})
}

func logFailure(ctx context.Context, appErr *respond.AppError) {
	level := slog.LevelWarn
	if appErr.Code >= 500 {
		level = slog.LevelError
	}
	slog.Log(ctx, level, "summary failed",
		slog.Int("status", appErr.Code),
		slog.String("user_message", appErr.UserMsg),
		slog.String("error", respond.SanitizeError(appErr.Err)))
}
