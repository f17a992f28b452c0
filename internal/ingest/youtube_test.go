package ingest_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/trendr/internal/ingest"
)

func TestVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch with params", "https://youtube.com/watch?list=PL1&v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ"},
		{"shorts", "https://www.youtube.com/shorts/a1B2c3D4e5F", "a1B2c3D4e5F"},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"live", "https://www.youtube.com/live/dQw4w9WgXcQ/", "dQw4w9WgXcQ"},
		{"http and padding", "  http://youtube.com/watch?v=dQw4w9WgXcQ  ", "dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ingest.VideoID(tt.url)
			if err != nil {
				t.Fatalf("VideoID(%q) error = %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("VideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestVideoIDRejects(t *testing.T) {
	urls := []string{
		"",
		"not a url",
		"ftp://youtube.com/watch?v=dQw4w9WgXcQ",
		"https://vimeo.com/123456",
		"https://www.youtube.com/watch",
		"https://www.youtube.com/watch?v=short",
		"https://youtu.be/",
		"https://www.youtube.com/channel/UC123",
	}

	for _, raw := range urls {
		if _, err := ingest.VideoID(raw); !errors.Is(err, ingest.ErrInvalidURL) {
			t.Errorf("VideoID(%q) error = %v, want ErrInvalidURL", raw, err)
		}
	}
}
