package fetch_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/rsacrack/pkg/fetch"
)

// Compile-time interface checks.
var (
	_ fetch.Fetcher = (*fetch.Client)(nil)
	_ fetch.Fetcher = fetch.FetcherFunc(nil)
)

type recorded struct {
	method string
	uri    string
	header http.Header
	body   string
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *[]recorded) {
	t.Helper()

	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, uri: r.URL.RequestURI(), header: r.Header.Clone(), body: string(b)})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func TestParseOrigin(t *testing.T) {
	u, err := fetch.ParseOrigin(" https://rsacrack.com/some/page?x=1 ")
	require.NoError(t, err)
	assert.Equal(t, "https://rsacrack.com", u.String())

	_, err = fetch.ParseOrigin("ftp://rsacrack.com")
	assert.ErrorContains(t, err, "scheme must be http or https")

	_, err = fetch.ParseOrigin("https://")
	assert.ErrorContains(t, err, "host is required")
}

func TestClient_Protocol(t *testing.T) {
	c, err := fetch.New("http://localhost:8082", nil)
	require.NoError(t, err)
	assert.Equal(t, "http:", c.Protocol())
}

func TestClient_Resolve(t *testing.T) {
	c, err := fetch.New("https://rsacrack.com", nil)
	require.NoError(t, err)

	tests := []struct {
		target string
		want   string
	}{
		{target: "/api/factor?n=15", want: "https://rsacrack.com/api/factor?n=15"},
		{target: "api/health", want: "https://rsacrack.com/api/health"},
		{target: "https://example.com/y", want: "https://example.com/y"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			u, err := c.Resolve(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestClient_FetchString(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `{"ok":true}`)

	c, err := fetch.New(srv.URL, srv.Client())
	require.NoError(t, err)
	c.UserAgent = "rsacrack-test"
	c.Headers = map[string]string{"X-Extra": "1"}

	resp, err := c.Fetch(context.Background(), "/api/health", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.Len(t, *calls, 1)
	got := (*calls)[0]
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/api/health", got.uri)
	assert.Equal(t, "rsacrack-test", got.header.Get("User-Agent"))
	assert.Equal(t, "1", got.header.Get("X-Extra"))
	assert.NotEmpty(t, got.header.Get(fetch.RequestIDHeader))
}

func TestClient_FetchWithInit(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `{}`)

	c, err := fetch.New(srv.URL, srv.Client())
	require.NoError(t, err)

	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set(fetch.RequestIDHeader, "req-1")

	resp, err := c.Fetch(context.Background(), "/api/lotto_factor", &fetch.Init{
		Method: http.MethodPost,
		Header: h,
		Body:   []byte(`{"n":"91"}`),
	})
	require.NoError(t, err)
	_ = resp.Body.Close()

	got := (*calls)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
	assert.Equal(t, "req-1", got.header.Get(fetch.RequestIDHeader))
	assert.JSONEq(t, `{"n":"91"}`, got.body)
}

func TestClient_FetchRequest(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `{}`)

	c, err := fetch.New(srv.URL, srv.Client())
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, "/api/classify?n=15", strings.NewReader("payload"))
	require.NoError(t, err)
	req.Header.Set("X-Kept", "yes")

	resp, err := c.Fetch(context.Background(), req, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()

	got := (*calls)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/classify?n=15", got.uri)
	assert.Equal(t, "yes", got.header.Get("X-Kept"))
	assert.Equal(t, "payload", got.body)
}

func TestClient_FetchUnsupportedTarget(t *testing.T) {
	c, err := fetch.New("https://rsacrack.com", nil)
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), 42, nil)
	assert.EqualError(t, err, "fetch: unsupported target type int")
}

func TestClient_FetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := fetch.New(srv.URL, nil)
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), "/api/health", nil)
	assert.ErrorContains(t, err, "fetch: do request")
}

func TestFetcherFunc(t *testing.T) {
	var gotTarget any
	f := fetch.FetcherFunc(func(_ context.Context, target any, _ *fetch.Init) (*http.Response, error) {
		gotTarget = target
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(""))}, nil
	})

	_, err := f.Fetch(context.Background(), "/x", nil)
	require.NoError(t, err)
	assert.Equal(t, "/x", gotTarget)
}

func response(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestDecodeJSON(t *testing.T) {
	v, err := fetch.DecodeJSON(response(http.StatusOK, `{"factors":[7,13]}`))
	require.NoError(t, err)

	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{json.Number("7"), json.Number("13")}, m["factors"])
}

func TestDecodeJSON_KeepsLargeNumbers(t *testing.T) {
	const big = "340282366920938463463374607431768211457"

	v, err := fetch.DecodeJSON(response(http.StatusOK, `{"n":`+big+`}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number(big), v.(map[string]any)["n"])
}

func TestDecodeJSON_ErrorStatusWithJSONBody(t *testing.T) {
	v, err := fetch.DecodeJSON(response(http.StatusBadRequest, `{"error":"invalid integer"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"error": "invalid integer"}, v)
}

func TestDecodeJSON_ErrorStatusWithTextBody(t *testing.T) {
	_, err := fetch.DecodeJSON(response(http.StatusBadGateway, "Bad Gateway\n"))

	var se *fetch.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Equal(t, "unexpected status 502: Bad Gateway", err.Error())
}

func TestDecodeJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "html", body: "<html></html>"},
		{name: "trailing data", body: `{"ok":true} {"ok":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fetch.DecodeJSON(response(http.StatusOK, tt.body))
			assert.ErrorContains(t, err, "fetch: decode response")
		})
	}
}
