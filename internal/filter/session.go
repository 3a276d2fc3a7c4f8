package filter

import (
	"net/url"

	"github.com/yourorg/listings-api/listing"
)

// QueryReplacer swaps the current location's query string in place, without
// adding a history entry.
type QueryReplacer interface {
	ReplaceQuery(query string)
}

// ReplacerFunc adapts a function to QueryReplacer.
type ReplacerFunc func(query string)

func (f ReplacerFunc) ReplaceQuery(query string) { f(query) }

// Session owns the filter state of one page view and mirrors every change
// into the query string. It is not safe for concurrent use.
type Session struct {
	state   State
	replace QueryReplacer
}

// NewSession starts from defaults and lets anything present in query win.
// A nil replacer is allowed.
func NewSession(query url.Values, defaults State, replacer QueryReplacer) *Session {
	return &Session{
		state:   Merge(defaults, Decode(query)),
		replace: replacer,
	}
}

// State returns a copy of the current constraints.
func (s *Session) State() State { return s.state.Clone() }

// Query is the canonical query string for the current state.
func (s *Session) Query() string { return Encode(s.state) }

// Update changes one field and rewrites the whole query string. The state is
// left untouched when value is rejected.
func (s *Session) Update(f Field, value any) error {
	next := s.state.Clone()
	if err := next.Set(f, value); err != nil {
		return err
	}
	s.state = next
	s.sync()
	return nil
}

// Reset clears every constraint and empties the query string.
func (s *Session) Reset() {
	s.state = State{}
	s.sync()
}

// Apply filters props with the current state.
func (s *Session) Apply(props []listing.Property) []listing.Property {
	return Apply(props, s.state)
}

func (s *Session) sync() {
	if s.replace != nil {
		s.replace.ReplaceQuery(s.Query())
	}
}
