package linkmeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFetcher() *Fetcher {
	return New(5*time.Second, 100, 100)
}

func TestFetchUsesOpenGraphTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
<title>Careers | Acme</title>
<meta property="og:title" content="Senior Engineer - Acme">
<meta name="description" content="Build rockets.">
</head><body></body></html>`))
	}))
	defer srv.Close()

	p, err := testFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer - Acme", p.Title)
	assert.Equal(t, "Build rockets.", p.Description)
}

func TestFetchFallsBackToTitleTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>  Engineer at Globex  </title></head></html>`))
	}))
	defer srv.Close()

	p, err := testFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Engineer at Globex", p.Title)
	assert.Empty(t, p.Description)
}

func TestFetchRejectsNonHTTPURL(t *testing.T) {
	_, err := testFetcher().Fetch(context.Background(), "ftp://example.com/job")
	assert.Error(t, err)

	_, err = testFetcher().Fetch(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	_, err := testFetcher().Fetch(context.Background(), srv.URL)
	assert.Error(t, err, "posting taken down")
}
