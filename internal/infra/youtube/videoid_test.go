package youtube_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-summarizer/internal/domain/entity"
	"content-summarizer/internal/infra/youtube"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "watch", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch with extra params", url: "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=42s", want: "dQw4w9WgXcQ"},
		{name: "mobile", url: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "music", url: "https://music.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "no www", url: "http://youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "short link", url: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "short link with time", url: "https://youtu.be/dQw4w9WgXcQ?t=10", want: "dQw4w9WgXcQ"},
		{name: "short link subdomain", url: "https://www.youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "short link trailing dot", url: "https://youtu.be./dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "shorts", url: "https://www.youtube.com/shorts/abcDEF12_-9", want: "abcDEF12_-9"},
		{name: "embed", url: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "nocookie embed", url: "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "live", url: "https://www.youtube.com/live/dQw4w9WgXcQ?feature=shared", want: "dQw4w9WgXcQ"},
		{name: "legacy v", url: "https://www.youtube.com/v/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "uppercase host", url: "https://WWW.YOUTUBE.COM/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := youtube.ExtractVideoID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractVideoID_Invalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "not youtube", url: "https://vimeo.com/123456"},
		{name: "lookalike host", url: "https://notyoutube.com/watch?v=dQw4w9WgXcQ"},
		{name: "channel page", url: "https://www.youtube.com/@somechannel"},
		{name: "missing v", url: "https://www.youtube.com/watch?list=PL123"},
		{name: "short id", url: "https://youtu.be/abc"},
		{name: "bad characters", url: "https://www.youtube.com/watch?v=dQw4w9WgX!Q"},
		{name: "empty short link", url: "https://youtu.be/"},
		{name: "unparsable", url: "://bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := youtube.ExtractVideoID(tt.url)
			require.Error(t, err)
			assert.ErrorIs(t, err, youtube.ErrInvalidVideoURL)
			assert.Contains(t, err.Error(), "YouTube")
		})
	}
}

func TestExtractVideoID_AcceptsEveryRoutedHost(t *testing.T) {
	for _, host := range []string{"youtu.be", "www.youtu.be", "youtube.com", "m.youtube.com", "www.youtube-nocookie.com"} {
		t.Run(host, func(t *testing.T) {
			raw := "https://" + host + "/embed/dQw4w9WgXcQ"
			if host == "youtu.be" || host == "www.youtu.be" {
				raw = "https://" + host + "/dQw4w9WgXcQ"
			}
			require.True(t, entity.IsYouTubeURL(raw))

			got, err := youtube.ExtractVideoID(raw)
			require.NoError(t, err)
			assert.Equal(t, "dQw4w9WgXcQ", got)
		})
	}
}
