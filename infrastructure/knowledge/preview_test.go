package knowledge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgError "github.com/AzielCF/az-console/pkg/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title> Product Docs </title>
<meta name="description" content="Everything about the product."></head><body></body></html>`))
	})
	mux.HandleFunc("/og", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><meta property="og:title" content="OG Title">
<meta property="og:description" content="OG desc"></head></html>`))
	})
	mux.HandleFunc("/files/prices.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("a,b\n1,2\n"))
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPreviewer_HTML(t *testing.T) {
	srv := newSite(t)
	p := NewPreviewer(time.Second)

	got, err := p.Fetch(context.Background(), srv.URL+"/docs")
	require.NoError(t, err)
	assert.Equal(t, "Product Docs", got.Title)
	assert.Equal(t, "Everything about the product.", got.Description)

	got, err = p.Fetch(context.Background(), srv.URL+"/og")
	require.NoError(t, err)
	assert.Equal(t, "OG Title", got.Title)
	assert.Equal(t, "OG desc", got.Description)
}

func TestPreviewer_NonHTMLUsesFileName(t *testing.T) {
	srv := newSite(t)

	got, err := NewPreviewer(time.Second).Fetch(context.Background(), srv.URL+"/files/prices.csv")

	require.NoError(t, err)
	assert.Equal(t, "prices.csv", got.Title)
	assert.Empty(t, got.Description)
}

func TestPreviewer_Errors(t *testing.T) {
	srv := newSite(t)
	p := NewPreviewer(time.Second)

	_, err := p.Fetch(context.Background(), "ftp://example.com/x")
	assert.IsType(t, pkgError.ValidationError(""), err)

	_, err = p.Fetch(context.Background(), "not a url")
	assert.IsType(t, pkgError.ValidationError(""), err)

	_, err = p.Fetch(context.Background(), srv.URL+"/gone")
	assert.IsType(t, pkgError.ValidationError(""), err)
}
