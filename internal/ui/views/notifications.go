package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dsaview/internal/notify"
)

// renderNotifications lists live notifications, newest last
func (r *Renderer) renderNotifications(items []notify.Notification) string {
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(items))
	for _, n := range items {
		lines = append(lines, r.noticeStyle(n.Severity).Render(noticeIcon(n.Severity)+" "+n.Message))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) noticeStyle(s notify.Severity) lipgloss.Style {
	switch s {
	case notify.Success:
		return r.styles.NoticeSuccess
	case notify.Error:
		return r.styles.NoticeError
	default:
		return r.styles.NoticeInfo
	}
}

func noticeIcon(s notify.Severity) string {
	switch s {
	case notify.Success:
		return "✓"
	case notify.Error:
		return "✗"
	default:
		return "•"
	}
}
