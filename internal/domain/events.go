package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventThemeChanged    EventType = "ThemeChanged"
	EventPreferenceSaved EventType = "PreferenceSaved"
	EventError           EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ThemeChangedEvent is emitted whenever the effective theme flips
type ThemeChangedEvent struct {
	Dark     bool
	Explicit bool // true when the user chose it, false when it follows the system
}

func (e ThemeChangedEvent) Type() EventType { return EventThemeChanged }

// PreferenceSavedEvent is emitted after the preference file is written
type PreferenceSavedEvent struct {
	Path string
}

func (e PreferenceSavedEvent) Type() EventType { return EventPreferenceSaved }

// ErrorEvent is emitted when a background operation fails
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
