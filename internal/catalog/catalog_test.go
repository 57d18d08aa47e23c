package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSource struct{}

func (failingSource) Name() string { return "failing" }
func (failingSource) Fetch(context.Context) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func TestLoadFromFile(t *testing.T) {
	cat, err := Load(context.Background(), NewFileSource("testdata/catalog.json"))
	require.NoError(t, err)

	assert.Equal(t, "+15551234567", cat.Seller.PhoneE164)
	require.Len(t, cat.Items, 3)
	assert.Equal(t, "vase-spiral", cat.Items[0].ID)
	assert.Equal(t, []string{"Color", "Scale"}, cat.Items[1].Options.Names())
	assert.Nil(t, cat.Items[2].Price)
	assert.Empty(t, cat.Items[2].Images)
	require.Len(t, cat.CommunityPicks, 1)
	assert.Equal(t, "Printables", cat.CommunityPicks[0].Site)
}

func TestLoadFailureIsWrapped(t *testing.T) {
	_, err := Load(context.Background(), failingSource{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadFailed)

	_, err = Load(context.Background(), NewFileSource("testdata/missing.json"))
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestParseRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"not json":     `{"seller":`,
		"duplicate id": `{"items":[{"id":"a"},{"id":"a"}]}`,
		"missing id":   `{"items":[{"name":"No id"}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			cat, err := Parse([]byte(raw))
			assert.Nil(t, cat)
			assert.ErrorIs(t, err, ErrLoadFailed)
		})
	}
}

func TestParseAbsorbsDegradedData(t *testing.T) {
	cat, err := Parse([]byte(`{"seller":{},"items":[{"id":" a ","price":-3,"leadTimeDays":-1}]}`))
	require.NoError(t, err)

	item := cat.Items[0]
	assert.Equal(t, "a", item.ID)
	assert.Nil(t, item.Price)
	assert.Zero(t, item.LeadTimeDays)
	assert.NotNil(t, item.Tags)
	assert.NotNil(t, item.Images)
	assert.Nil(t, cat.CommunityPicks)
}

func TestParseEmptyItems(t *testing.T) {
	cat, err := Parse([]byte(`{"seller":{"phoneE164":"+1"}}`))
	require.NoError(t, err)
	assert.NotNil(t, cat.Items)
	assert.Empty(t, cat.Items)
}

func TestHTTPSourceSendsNoStore(t *testing.T) {
	body, err := os.ReadFile("testdata/catalog.json")
	require.NoError(t, err)

	var cacheControl string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cacheControl = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	cat, err := Load(context.Background(), NewHTTPSource(srv.URL, time.Second))
	require.NoError(t, err)
	assert.Len(t, cat.Items, 3)
	assert.Equal(t, "no-store", cacheControl)
}

func TestHTTPSourceNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), NewHTTPSource(srv.URL, time.Second))
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestHTTPSourceRejectsOversizedDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[],"pad":"`))
		_, _ = w.Write([]byte(strings.Repeat("x", maxDocumentSize)))
		_, _ = w.Write([]byte(`"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, 5*time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog document exceeds 8 MiB")

	_, err = Load(context.Background(), NewHTTPSource(srv.URL, 5*time.Second))
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.Contains(t, err.Error(), "exceeds 8 MiB")
}

func TestHTTPSourceAcceptsDocumentAtLimit(t *testing.T) {
	body := []byte(`{"items":[]}`)
	body = append(body, []byte(strings.Repeat(" ", maxDocumentSize-len(body)))...)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	data, err := NewHTTPSource(srv.URL, 5*time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, data, maxDocumentSize)
}
