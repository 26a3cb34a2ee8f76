package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsaview/internal/api"
	"dsaview/internal/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(loadFixture(t, fixtureFs(t)), nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestServerRoundTripsThroughClient(t *testing.T) {
	srv := newTestServer(t)
	c := api.New(srv.URL, "")
	ctx := context.Background()

	items, err := c.Search(ctx, "two")
	require.NoError(t, err)
	require.Equal(t, []domain.SearchResultItem{{Name: "Two Sum", Path: "/Arrays/two_sum.py"}}, items)

	file, err := c.FetchFile(ctx, items[0])
	require.NoError(t, err)
	assert.Equal(t, "def two_sum(nums, target): ...", file.Content)
	assert.Equal(t, "Two Sum", file.Name)

	items, err = c.Filter(ctx, "Binary Search")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = c.Filter(ctx, "Heaps")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestServerMissingParams(t *testing.T) {
	srv := newTestServer(t)
	c := api.New(srv.URL, "")

	_, err := c.Search(context.Background(), "")
	var rf *api.RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusBadRequest, rf.Status)
	assert.Equal(t, "query is required", rf.Detail)
}

func TestServerFileNotFound(t *testing.T) {
	srv := newTestServer(t)

	for _, p := range []string{"/nope.py", "/../../etc/passwd"} {
		resp, err := http.Get(srv.URL + "/file/" + url.PathEscape(p))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, p)
	}
}

func TestServerHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = http.Get(srv.URL + "/search?query=sum")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "dsaview_backend_catalog_entries 6")
	assert.Contains(t, string(body), `dsaview_backend_http_requests_total{method="GET",path="/search",status="200"} 1`)
	assert.Contains(t, string(body), `dsaview_backend_results_returned_count{endpoint="search"} 1`)
}
