package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Store</title><style>p{color:red}</style></head>
			<body><script>var hidden = "NOPE";</script>
			<h1>Product   Page</h1>
			<p>PlayStation 5 now   IN STOCK!</p>
			</body></html>`))
	}))
	defer srv.Close()

	text, err := FallbackText(context.Background(), srv.URL, "test-agent")
	assert.NoError(t, err)
	assert.Equal(t, "product page playstation 5 now in stock!", text)
	//script and style content never leaks into the result
	assert.NotContains(t, text, "nope")
	assert.NotContains(t, text, "color")
}

func TestFallbackText_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, err := FallbackText(context.Background(), srv.URL, "test-agent")
	assert.Error(t, err)
}

func TestFallbackText_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><script>only()</script></body></html>`))
	}))
	defer srv.Close()

	_, err := FallbackText(context.Background(), srv.URL, "test-agent")
	assert.Error(t, err)
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"collapses whitespace", "Hello\n\n  World\t!", "hello world !"},
		{"lowercases", "BIG News", "big news"},
		{"empty", "  \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.in)
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
