package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestFetchJobsQueryContract(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/jobs" {
			t.Errorf("path: want /api/jobs, got %s", r.URL.Path)
		}
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[],"total":0,"page":2,"page_size":10,"total_pages":0}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	page, err := c.FetchJobs(context.Background(), Query{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("FetchJobs: %v", err)
	}

	if got.Get("page") != "2" || got.Get("page_size") != "10" {
		t.Errorf("pagination params: got page=%s page_size=%s", got.Get("page"), got.Get("page_size"))
	}
	if got.Get("category") != "all" {
		t.Errorf("category default: want all, got %q", got.Get("category"))
	}
	if got.Has("since") {
		t.Errorf("since must be omitted when zero, got %q", got.Get("since"))
	}
	if page.Page != 2 || page.PageSize != 10 {
		t.Errorf("metadata round trip: %+v", page)
	}
}

func TestFetchJobsSinceParam(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{"items":[],"total":0,"page":1,"page_size":100,"total_pages":0}`))
	}))
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL})
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if _, err := c.FetchJobs(context.Background(), Query{PageSize: 100, Since: since}); err != nil {
		t.Fatalf("FetchJobs: %v", err)
	}

	if got.Get("since") != "2026-08-01T00:00:00Z" {
		t.Errorf("since param: got %q", got.Get("since"))
	}
	if got.Get("page") != "1" {
		t.Errorf("page default: got %q", got.Get("page"))
	}
}

func TestFetchJobsDecodesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"items": [{
				"id": 42,
				"company_id": 7,
				"company_name": "Initech",
				"title": "Firmware Engineer",
				"link": "https://initech.example/careers/42",
				"posting_date": "2026-08-10T08:00:00Z",
				"discovery_date": "2026-08-11T02:30:00Z",
				"category": "hardware",
				"is_active": true
			}],
			"total": 1, "page": 1, "page_size": 50, "total_pages": 1
		}`))
	}))
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL})
	page, err := c.FetchJobs(context.Background(), Query{})
	if err != nil {
		t.Fatalf("FetchJobs: %v", err)
	}

	if len(page.Items) != 1 {
		t.Fatalf("want 1 item, got %d", len(page.Items))
	}
	j := page.Items[0]
	if j.ID != 42 || j.CompanyName != "Initech" || string(j.Category) != "hardware" {
		t.Errorf("decoded job: %+v", j)
	}
	if j.PostingDate.IsZero() {
		t.Error("posting date not decoded")
	}
}

func TestFetchJobsErrorNormalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL})
	_, err := c.FetchJobs(context.Background(), Query{})

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("want *FetchError, got %T: %v", err, err)
	}
	if fe.Op != "fetch jobs" || fe.Status != http.StatusBadGateway {
		t.Errorf("FetchError fields: %+v", fe)
	}
}

func TestFetchJobsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c, _ := NewClient(Config{BaseURL: srv.URL})
	_, err := c.FetchJobs(context.Background(), Query{})

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("want *FetchError, got %T: %v", err, err)
	}
	if fe.Status != 0 || fe.Err == nil {
		t.Errorf("transport failure should carry wrapped error, got %+v", fe)
	}
}

func TestFetchStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats" {
			t.Errorf("path: want /api/stats, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"total_jobs":120,"software_jobs":80,"hardware_jobs":40,"new_jobs":12,"last_update_time":"2026-08-24T10:00:00Z"}`))
	}))
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL})
	stats, err := c.FetchStats(context.Background())
	if err != nil {
		t.Fatalf("FetchStats: %v", err)
	}
	if stats.TotalJobs != 120 || stats.NewJobs != 12 {
		t.Errorf("stats: %+v", stats)
	}
}

func TestResolveBaseURL(t *testing.T) {
	cases := []struct {
		name     string
		origin   string
		port     int
		fallback string
		want     string
	}{
		{"origin localhost", "http://localhost:3000", 8000, "http://api.internal", "http://localhost:8000"},
		{"origin lan ip", "http://192.168.1.20:3000", 8000, "http://api.internal", "http://192.168.1.20:8000"},
		{"origin https", "https://jobs.example.com", 8000, "", "https://jobs.example.com:8000"},
		{"no origin", "", 8000, "http://localhost:8000/", "http://localhost:8000"},
		{"unparseable origin", "://bad", 8000, "http://fallback:8000", "http://fallback:8000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveBaseURL(tc.origin, tc.port, tc.fallback)
			if got != tc.want {
				t.Errorf("ResolveBaseURL(%q, %d, %q) = %q, want %q", tc.origin, tc.port, tc.fallback, got, tc.want)
			}
		})
	}
}

func TestHostPort(t *testing.T) {
	got, err := HostPort("http://localhost:8000")
	if err != nil || got != "localhost:8000" {
		t.Errorf("HostPort: got %q, %v", got, err)
	}
	got, err = HostPort("https://jobs.example.com")
	if err != nil || got != "jobs.example.com:443" {
		t.Errorf("HostPort default https port: got %q, %v", got, err)
	}
	if _, err := HostPort("not a url at all ://"); err == nil {
		t.Error("want error for junk url")
	}
}
