package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{name: "with request ID", ctx: WithRequestID(context.Background(), "test-id-123"), expected: "test-id-123"},
		{name: "without request ID", ctx: context.Background(), expected: ""},
		{name: "with invalid type in context", ctx: context.WithValue(context.Background(), RequestIDKey, 12345), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromContext(tt.ctx))
		})
	}
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		incoming   string
		wantReused bool
	}{
		{name: "generates when missing", incoming: "", wantReused: false},
		{name: "propagates incoming id", incoming: "abc-123", wantReused: true},
		{name: "rejects id with spaces", incoming: "abc 123", wantReused: false},
		{name: "rejects newline injection", incoming: "abc\nlevel=ERROR", wantReused: false},
		{name: "rejects oversized id", incoming: strings.Repeat("a", 200), wantReused: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = FromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
			if tt.wantReused {
				assert.Equal(t, tt.incoming, seen)
			} else {
				_, err := uuid.Parse(seen)
				assert.NoError(t, err, "generated id should be a UUID")
			}
		})
	}
}
