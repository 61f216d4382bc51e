package extraction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `{
	"pages": [
		{
			"number": 1,
			"width": 595.0,
			"height": 842.0,
			"regions": [
				{"text": "Quarterly report", "label": "header", "x_top_left": 10, "y_top_left": 10, "width": 200, "height": 20},
				{"text": "Revenue grew by 12%.", "label": "text", "x_top_left": 10, "y_top_left": 40, "width": 400, "height": 60}
			]
		}
	]
}`

func TestPagerClient_Extract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(64<<20))

		assert.JSONEq(t, `{"glam_rows": true}`, r.FormValue("process"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "invoice.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleReport))
	}))
	defer srv.Close()

	client := NewPagerClient(Config{URL: srv.URL})

	raw, report, err := client.Extract(context.Background(), "invoice.pdf", "pdf", []byte("%PDF-1.7 fake"))
	require.NoError(t, err)
	assert.JSONEq(t, sampleReport, string(raw))

	require.Len(t, report.Pages, 1)
	require.Len(t, report.Pages[0].Regions, 2)
	assert.Equal(t, "header", report.Pages[0].Regions[0].Label)
	assert.Equal(t, "Revenue grew by 12%.", report.Pages[0].Regions[1].Text)
}

func TestPagerClient_Extract_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "layout engine crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewPagerClient(Config{URL: srv.URL})

	_, _, err := client.Extract(context.Background(), "a.pdf", "pdf", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestPagerClient_Extract_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewPagerClient(Config{URL: srv.URL})

	_, _, err := client.Extract(context.Background(), "a.pdf", "pdf", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestPagerClient_Extract_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewPagerClient(Config{URL: srv.URL, Timeout: 20 * time.Millisecond})

	_, _, err := client.Extract(context.Background(), "a.pdf", "pdf", []byte("x"))
	require.Error(t, err)
}
