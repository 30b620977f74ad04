package app

import (
	"fmt"
	"io"
	"sync"

	"github.com/2mushr00m/dialLog/logger"
)

// ComponentStatus is one wired component.
type ComponentStatus struct {
	Name    string
	Status  string
	Details string
}

// Summary records what New wired, for logs and the CLI.
type Summary struct {
	mu         sync.Mutex
	name       string
	version    string
	components []ComponentStatus
}

// NewSummary creates an empty summary.
func NewSummary(name, version string) *Summary {
	return &Summary{name: name, version: version}
}

// Track adds a component.
func (s *Summary) Track(name, status, details string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components = append(s.components, ComponentStatus{Name: name, Status: status, Details: details})
}

// Components returns a copy of the tracked components.
func (s *Summary) Components() []ComponentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ComponentStatus(nil), s.components...)
}

// Log writes one debug line per component.
func (s *Summary) Log(log *logger.Logger) {
	for _, c := range s.Components() {
		log.Debug("component wired", logger.Fields(
			logger.FieldComponent, c.Name,
			logger.FieldStatus, c.Status,
			"details", c.Details,
		))
	}
}

// Render writes a tree of the components to w.
func (s *Summary) Render(w io.Writer) {
	components := s.Components()
	fmt.Fprintf(w, "%s %s\n", s.name, s.version)
	for i, c := range components {
		prefix := "├──"
		if i == len(components)-1 {
			prefix = "└──"
		}
		line := fmt.Sprintf("%s %s (%s)", prefix, c.Name, c.Status)
		if c.Details != "" {
			line += ": " + c.Details
		}
		fmt.Fprintln(w, line)
	}
}
