package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"content-summarizer/internal/handler/http/respond"
)

// Timeout returns middleware that enforces request timeouts.
// If a request takes longer than the specified duration, it returns 504 Gateway Timeout
// with an ErrorBody carrying MsgTimeout. The request context is canceled so the
// summarize pipeline stops waiting on the model.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return TimeoutWith(duration, writeTimeoutJSON)
}

// TimeoutWith is Timeout with a custom response for requests that run out of time.
// onTimeout writes to the real ResponseWriter and must not read the request body.
//
// Note: This implementation uses a mutex to prevent race conditions when writing
// the timeout response. Only one goroutine (either the handler or timeout) will
// write to the response.
func TimeoutWith(duration time.Duration, onTimeout http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()
			r = r.WithContext(ctx)

			done := make(chan struct{})
			var mu sync.Mutex
			timedOut := false

			wrappedWriter := &timeoutResponseWriter{
				ResponseWriter: w,
				mu:             &mu,
				timedOut:       &timedOut,
			}

			// A panic is handed back so Recover, which runs on this
			// goroutine, still sees it.
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(wrappedWriter, r)
				close(done)
			}()

			select {
			case <-done:
				return
			case p := <-panicked:
				panic(p)
			case <-ctx.Done():
				mu.Lock()
				timedOut = true
				if !wrappedWriter.written {
					onTimeout(w, r)
				}
				mu.Unlock()
			}
		})
	}
}

func writeTimeoutJSON(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusGatewayTimeout, respond.ErrorBody{Error: MsgTimeout})
}

// timeoutResponseWriter wraps http.ResponseWriter to prevent writes after timeout.
// Headers are buffered in h and copied on the first write, so a handler still
// running after the timeout never touches the real header map.
type timeoutResponseWriter struct {
	http.ResponseWriter
	mu       *sync.Mutex
	timedOut *bool
	written  bool
	h        http.Header
}

// Header returns the buffered header map.
func (w *timeoutResponseWriter) Header() http.Header {
	if w.h == nil {
		w.h = make(http.Header)
	}
	return w.h
}

// writeHeaderLocked copies the buffered headers and sends the status. w.mu must be held.
func (w *timeoutResponseWriter) writeHeaderLocked(statusCode int) {
	w.written = true
	dst := w.ResponseWriter.Header()
	for k, v := range w.h {
		dst[k] = v
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

// WriteHeader writes the status code if timeout hasn't occurred
func (w *timeoutResponseWriter) WriteHeader(statusCode int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !*w.timedOut && !w.written {
		w.writeHeaderLocked(statusCode)
	}
}

// Write writes data if timeout hasn't occurred
func (w *timeoutResponseWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if *w.timedOut {
		return 0, http.ErrHandlerTimeout
	}

	if !w.written {
		w.writeHeaderLocked(http.StatusOK)
	}

	return w.ResponseWriter.Write(data)
}
