package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// PagerOps shows content full screen in the ov pager
type PagerOps struct {
	program *tea.Program
}

// NewPagerOps creates pager operations bound to a program
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{program: program}
}

// Show releases the terminal, runs ov over content and restores the terminal
func (p *PagerOps) Show(content string) error {
	if p == nil || p.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// give ov time to leave the alternate screen
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// openPager returns a command that shows content in ov, pausing rendering
func (m *Model) openPager(content string) tea.Cmd {
	if m.program == nil {
		return func() tea.Msg { return pagerMsg{err: fmt.Errorf("pager unavailable")} }
	}
	ops := m.pager
	program := m.program
	return func() tea.Msg {
		program.Send(pauseRenderingMsg{})
		err := ops.Show(content)
		program.Send(resumeRenderingMsg{})
		return pagerMsg{err: err}
	}
}
