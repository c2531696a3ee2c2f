package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"content-summarizer/internal/domain/entity"
	"content-summarizer/internal/handler/http/respond"
	"content-summarizer/internal/usecase/summarize"
)

// SummaryRequest is the body of POST /api/summaries.
type SummaryRequest struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Model       string `json:"model"`
}

// SummaryResponse is returned by POST /api/summaries.
type SummaryResponse struct {
	Summary    string            `json:"summary"`
	URL        string            `json:"url"`
	Source     string            `json:"source"`
	Title      string            `json:"title,omitempty"`
	Video      *entity.VideoInfo `json:"video,omitempty"`
	ChunkCount int               `json:"chunk_count"`
	Model      string            `json:"model"`
	DurationMS int64             `json:"duration_ms"`
}

// ModelDTO is one entry of GET /api/models.
type ModelDTO struct {
	Name      string `json:"name"`
	Provider  string `json:"provider"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

// ModelsResponse is returned by GET /api/models.
type ModelsResponse struct {
	Default string     `json:"default"`
	Models  []ModelDTO `json:"models"`
}

// SummariesHandler serves POST /api/summaries.
type SummariesHandler struct {
	Service Summarizer
}

func (h *SummariesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.WriteError(w, http.StatusRequestEntityTooLarge,
				respond.NewAppError(http.StatusRequestEntityTooLarge, "request body too large", err))
			return
		}
		respond.WriteError(w, http.StatusBadRequest,
			respond.NewAppError(http.StatusBadRequest, MsgInvalidJSONEnvelope, err))
		return
	}

	ct, err := entity.ParseContentType(req.ContentType)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest,
			respond.NewAppError(http.StatusBadRequest, MsgInvalidContentType, err))
		return
	}

	res, err := h.Service.Summarize(r.Context(), summarize.Request{
		URL:         strings.TrimSpace(req.URL),
		ContentType: ct,
		Model:       strings.TrimSpace(req.Model),
	})
	if err != nil {
		appErr := summarizeError(err)
		respond.WriteError(w, appErr.Code, appErr)
		return
	}

	respond.JSON(w, http.StatusOK, SummaryResponse{
		Summary:    res.Summary,
		URL:        res.URL,
		Source:     string(res.Source),
		Title:      res.Title,
		Video:      res.Video,
		ChunkCount: res.ChunkCount,
		Model:      res.Model,
		DurationMS: res.Duration.Milliseconds(),
	})
}

// ModelsHandler serves GET /api/models.
type ModelsHandler struct {
	Models ModelSource
}

func (h *ModelsHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	catalog := h.Models.Catalog()
	models := catalog.Models()
	resp := ModelsResponse{
		Default: catalog.Default().Name,
		Models:  make([]ModelDTO, 0, len(models)),
	}
	for _, m := range models {
		resp.Models = append(resp.Models, ModelDTO{
			Name:      m.Name,
			Provider:  m.Provider,
			Label:     m.Label,
			Available: h.Models.Configured(m.Provider),
		})
	}
	respond.JSON(w, http.StatusOK, resp)
}
