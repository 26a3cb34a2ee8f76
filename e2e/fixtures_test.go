//go:build e2e && unix

package main

import (
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var solutionFiles = map[string]string{
	"Arrays/two_sum.py":              "def two_sum(nums, target):\n    seen = {}\n",
	"Arrays/three_sum.py":            "def three_sum(nums):\n    nums.sort()\n",
	"graphs/bfs.py":                  "from collections import deque\n",
	"binary-search/search_insert.py": "def search_insert(nums, target):\n    lo, hi = 0, len(nums)\n",
}

func writeSolutions(t *testing.T, root string) {
	t.Helper()
	for rel, body := range solutionFiles {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
}

// serve runs "dsaview serve" over root on a free port and returns its URL
// once /healthz answers.
func (term *Terminal) serve(root string) string {
	t := term.t
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	term.server = exec.Command(binPath, "serve", root, "--addr", addr)
	term.server.Env = term.env()
	require.NoError(t, term.server.Start(), "start backend")

	url := "http://" + addr
	require.Eventually(t, func() bool {
		resp, err := http.Get(url + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond, "backend never became healthy at %s", url)
	return url
}
