package http

import (
	"net/http"
	"strings"

	"content-summarizer/internal/handler/http/respond"
)

// DownloadFilename is the name offered for downloaded summaries.
const DownloadFilename = "summary.txt"

// DownloadHandler serves POST /download: it echoes the submitted summary back
// as a plain-text attachment. Nothing is stored server-side.
func DownloadHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			respond.WriteError(w, http.StatusBadRequest,
				respond.NewAppError(http.StatusBadRequest, MsgNothingToDownload, err))
			return
		}

		summary := r.PostForm.Get("summary")
		if strings.TrimSpace(summary) == "" {
			respond.WriteError(w, http.StatusBadRequest,
				respond.NewAppError(http.StatusBadRequest, MsgNothingToDownload, nil))
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+DownloadFilename+`"`)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(summary))
	})
}
