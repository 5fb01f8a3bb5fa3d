package scraper

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestScraper_ScrapePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`
			<html>
			<head>
				<title>Test Page</title>
				<meta name="keywords" content="go, testing, scraping">
			</head>
			<body>
				<h1>Hello World</h1>
				<p>This is a test page.</p>
			</body>
			</html>
		`))
	}))
	defer server.Close()

	s := New(Config{
		Timeout:   5 * time.Second,
		UserAgent: "test-agent",
	})

	page, err := s.ScrapePage(t.Context(), server.URL)
	if err != nil {
		t.Fatalf("ScrapePage() error = %v", err)
	}

	if !strings.HasPrefix(page.URL, server.URL) {
		t.Errorf("URL = %q, want prefix %q", page.URL, server.URL)
	}
	if page.Title != "Test Page" {
		t.Errorf("Title = %q, want %q", page.Title, "Test Page")
	}
	if !strings.Contains(page.Content, "Hello World") {
		t.Errorf("Content should contain heading, got:\n%s", page.Content)
	}
	if strings.Contains(page.Content, "<h1>") {
		t.Error("Content should be markdown, found HTML tags")
	}
	if want := []string{"go", "testing", "scraping"}; !reflect.DeepEqual(page.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", page.Keywords, want)
	}
	if page.FetchedAt.IsZero() {
		t.Error("FetchedAt should not be zero")
	}
}

func TestScraper_ScrapePage_NoKeywords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Bare</title></head><body><p>Text.</p></body></html>`))
	}))
	defer server.Close()

	s := New(Config{UserAgent: "test-agent"})

	page, err := s.ScrapePage(t.Context(), server.URL)
	if err != nil {
		t.Fatalf("ScrapePage() error = %v", err)
	}
	if len(page.Keywords) != 0 {
		t.Errorf("Keywords = %v, want none", page.Keywords)
	}
}

func TestScraper_ScrapePage_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	s := New(Config{UserAgent: "test-agent"})

	if _, err := s.ScrapePage(t.Context(), server.URL); err == nil {
		t.Fatal("ScrapePage() should fail on 404")
	}
}
