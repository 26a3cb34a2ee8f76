//go:build e2e && unix

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

// binPath is set by TestMain once the binary is built
var binPath string

// keys understood by the dsaview TUI
const (
	keyEnter  = "\r"
	keyCtrlC  = "\x03"
	keyEsc    = "\x1b"
	keyTab    = "\t"
	keyQuit   = "q"
	keyFilter = "f"
)

const maxCapture = 1 << 20

// escapes strips terminal control output so assertions see plain text
var escapes = regexp.MustCompile(
	`\x1b\[[0-9;?]*[ -/]*[@-~]` +
		`|\x1b\][^\x07]*\x07` +
		`|\x1b[()][A-Za-z]` +
		`|\x1b[=>]` +
		`|\r`,
)

// Terminal is one dsaview TUI running in a pseudo-terminal against its own
// fixture backend.
type Terminal struct {
	t      *testing.T
	home   string
	server *exec.Cmd
	app    *exec.Cmd
	pty    *os.File
	exited chan error

	mu  sync.Mutex
	out []byte
}

// newTerminal serves the fixture solutions, launches the TUI and waits for
// its first frame. Everything is torn down when the test ends.
func newTerminal(t *testing.T) *Terminal {
	t.Helper()
	term := &Terminal{t: t, home: t.TempDir(), exited: make(chan error, 1)}
	t.Cleanup(term.close)

	writeSolutions(t, filepath.Join(term.home, "solutions"))
	backend := term.serve(filepath.Join(term.home, "solutions"))

	term.app = exec.Command(binPath)
	term.app.Env = append(term.env(),
		"TERM=xterm-256color",
		"DSAVIEW_BACKEND_URL="+backend,
		"DSAVIEW_UI_DEBOUNCE_MS=100",
	)
	ptmx, err := pty.StartWithSize(term.app, &pty.Winsize{Rows: 40, Cols: 120})
	require.NoError(t, err, "start dsaview")
	term.pty = ptmx

	go term.capture()
	go func() { term.exited <- term.app.Wait() }()

	require.True(t, term.Sees("dsaview"), "first frame never rendered")
	return term
}

// env isolates config, cache and preferences under the test home
func (term *Terminal) env() []string {
	return append(os.Environ(),
		"LC_ALL=C",
		"LANG=C",
		"HOME="+term.home,
		"XDG_CONFIG_HOME="+filepath.Join(term.home, ".config"),
		"XDG_CACHE_HOME="+filepath.Join(term.home, ".cache"),
	)
}

func (term *Terminal) capture() {
	chunk := make([]byte, 8192)
	for {
		n, err := term.pty.Read(chunk)
		if n > 0 {
			term.mu.Lock()
			term.out = append(term.out, chunk[:n]...)
			if over := len(term.out) - maxCapture; over > 0 {
				term.out = term.out[over:]
			}
			term.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Press writes raw key sequences to the TUI.
func (term *Terminal) Press(keys ...string) {
	term.t.Helper()
	for _, k := range keys {
		_, err := term.pty.Write([]byte(k))
		require.NoError(term.t, err)
	}
}

// Type enters text one key at a time.
func (term *Terminal) Type(text string) {
	term.t.Helper()
	for _, r := range text {
		term.Press(string(r))
	}
}

// Screen returns everything rendered so far with escapes removed.
func (term *Terminal) Screen() string {
	term.mu.Lock()
	defer term.mu.Unlock()
	return escapes.ReplaceAllString(string(term.out), "")
}

// Sees waits up to three seconds for text to be rendered.
func (term *Terminal) Sees(text string) bool {
	return term.SeesWithin(text, 3*time.Second)
}

// SeesWithin waits up to d for text to be rendered.
func (term *Terminal) SeesWithin(text string, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for {
		if strings.Contains(term.Screen(), text) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// Exits reports whether the TUI process ended within d.
func (term *Terminal) Exits(d time.Duration) bool {
	select {
	case err := <-term.exited:
		term.t.Logf("dsaview exited: %v", err)
		term.app = nil
		return true
	case <-time.After(d):
		return false
	}
}

func (term *Terminal) close() {
	if term.t.Failed() {
		screen := term.Screen()
		if len(screen) > 4096 {
			screen = screen[len(screen)-4096:]
		}
		term.t.Logf("last output:\n%s", screen)
	}
	if term.pty != nil {
		_ = term.pty.Close()
	}
	if term.app != nil && term.app.Process != nil {
		_ = term.app.Process.Kill()
		<-term.exited
	}
	if term.server != nil && term.server.Process != nil {
		_ = term.server.Process.Kill()
		_ = term.server.Wait()
	}
}
