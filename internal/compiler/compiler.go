// Package compiler turns validated command graphs into normalized
// registration descriptors. Compilation is deterministic and total: given a
// validated graph it cannot fail.
package compiler

import "github.com/kbraden/slashforge/internal/graph"

// DefaultDescription is used when a start node has no description.
const DefaultDescription = "No description provided"

// MaxOptions is the platform cap on options per command.
const MaxOptions = 25

// Option is one compiled command option.
type Option struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
}

// Command is the compiled registration descriptor for one slash command.
type Command struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Options     []Option `json:"options,omitempty"`
}

// Compile maps a validated graph to its registration descriptor. Options are
// emitted in node-array order. Option nodes with an unrecognized type are
// skipped; validation rejects those up front, so the skip only matters for
// callers bypassing validation.
func Compile(v *graph.Validated) Command {
	g := v.Graph()

	cmd := Command{
		Name:        v.Name(),
		Description: DefaultDescription,
	}
	if start := g.StartNode(); start != nil && start.Description != "" {
		cmd.Description = start.Description
	}

	for _, n := range g.OptionNodes() {
		if !knownOptionType(n.OptionType) {
			continue
		}
		cmd.Options = append(cmd.Options, Option{
			Name:        n.Name,
			Description: optionDescription(n),
			Type:        n.OptionType,
			Required:    n.Required,
		})
		if len(cmd.Options) == MaxOptions {
			break
		}
	}

	return cmd
}

// optionDescription falls back to the default because the platform rejects
// empty option descriptions.
func optionDescription(n graph.Node) string {
	if n.Description != "" {
		return n.Description
	}
	return DefaultDescription
}

func knownOptionType(t string) bool {
	switch t {
	case graph.OptionString, graph.OptionNumber, graph.OptionUser,
		graph.OptionChannel, graph.OptionRole:
		return true
	}
	return false
}
