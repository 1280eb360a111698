package graph

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Command names are capped by the platform at 32 characters.
const MaxNameLength = 32

// ErrMissingStartNode indicates the graph has no start node, so no command
// name can be derived.
var ErrMissingStartNode = errors.New("graph: no start node")

// InvalidNameError indicates the normalized start-node label does not
// satisfy the command name grammar.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("graph: invalid command name %q: must be 1-32 characters of lowercase letters, digits, '-' or '_'; must not contain \"__\"; must not start or end with '-' or '_'", e.Name)
}

// DuplicateOptionError indicates two option nodes share a name.
type DuplicateOptionError struct {
	Option string
}

func (e *DuplicateOptionError) Error() string {
	return fmt.Sprintf("graph: duplicate option name %q", e.Option)
}

// DanglingEdgeError indicates an edge references a node id that does not
// exist in the graph.
type DanglingEdgeError struct {
	NodeID string
}

func (e *DanglingEdgeError) Error() string {
	return fmt.Sprintf("graph: edge references unknown node %q", e.NodeID)
}

// UnknownOptionTypeError indicates an option node carries an unrecognized
// option type. Rejected at validation time so compilation never has to drop
// options silently.
type UnknownOptionTypeError struct {
	Option string
	Type   string
}

func (e *UnknownOptionTypeError) Error() string {
	return fmt.Sprintf("graph: option %q has unknown type %q", e.Option, e.Type)
}

// Validated wraps a graph that passed validation. Holding one guarantees
// the graph has exactly one reachable start node and a grammar-conforming
// command name, so compilation cannot fail.
type Validated struct {
	graph *Graph
	name  string
}

// Graph returns the underlying graph.
func (v *Validated) Graph() *Graph { return v.graph }

// Name returns the normalized command name.
func (v *Validated) Name() string { return v.name }

// NormalizeName trims surrounding whitespace and lowercases a raw command
// name candidate.
func NormalizeName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsValidName reports whether s satisfies the command name grammar:
// 1-32 runes drawn from lowercase Latin letters, ASCII digits, Devanagari,
// Thai, '-' and '_'; no "__" substring; no leading or trailing '-' or '_'.
func IsValidName(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 1 || n > MaxNameLength {
		return false
	}
	for _, r := range s {
		if !allowedNameRune(r) {
			return false
		}
	}
	if strings.Contains(s, "__") {
		return false
	}
	first, last := s[0], s[len(s)-1]
	if first == '-' || first == '_' || last == '-' || last == '_' {
		return false
	}
	return true
}

// allowedNameRune mirrors the platform's slash-command identifier rule:
// lowercase Latin, ASCII digits, and the Devanagari and Thai scripts.
func allowedNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return unicode.In(r, unicode.Devanagari, unicode.Thai)
}

// Validate checks a graph's well-formedness and returns it tagged as
// validated. It fails with ErrMissingStartNode, *InvalidNameError,
// *DuplicateOptionError, *UnknownOptionTypeError or *DanglingEdgeError.
func Validate(g *Graph) (*Validated, error) {
	start := g.StartNode()
	if start == nil {
		return nil, ErrMissingStartNode
	}

	name := NormalizeName(start.Label)
	if !IsValidName(name) {
		return nil, &InvalidNameError{Name: name}
	}

	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	for _, e := range g.Edges {
		if !ids[e.From] {
			return nil, &DanglingEdgeError{NodeID: e.From}
		}
		if !ids[e.To] {
			return nil, &DanglingEdgeError{NodeID: e.To}
		}
	}

	seen := make(map[string]bool)
	for _, opt := range g.OptionNodes() {
		if !validOptionType(opt.OptionType) {
			return nil, &UnknownOptionTypeError{Option: opt.Name, Type: opt.OptionType}
		}
		if seen[opt.Name] {
			return nil, &DuplicateOptionError{Option: opt.Name}
		}
		seen[opt.Name] = true
	}

	return &Validated{graph: g, name: name}, nil
}

func validOptionType(t string) bool {
	switch t {
	case OptionString, OptionNumber, OptionUser, OptionChannel, OptionRole:
		return true
	}
	return false
}
