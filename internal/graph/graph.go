// Package graph defines the command graph data model and its validation
// rules. A graph is the persisted output of the visual editor: one start
// node carrying the command name, plus action/condition/option nodes wired
// by directed edges.
package graph

import (
	"encoding/json"
	"fmt"
)

// Node kinds.
const (
	KindStart     = "start"
	KindAction    = "action"
	KindCondition = "condition"
	KindOption    = "option"
)

// Option types accepted on option nodes.
const (
	OptionString  = "string"
	OptionNumber  = "number"
	OptionUser    = "user"
	OptionChannel = "channel"
	OptionRole    = "role"
)

// Node is one node of a command graph. Start nodes carry the command name
// in Label and the command description in Description. Option nodes carry
// the option fields. Action and condition nodes carry behavior payloads in
// Data that registration does not interpret.
type Node struct {
	ID          string         `json:"id"`
	Kind        string         `json:"kind"`
	Label       string         `json:"label"`
	Description string         `json:"description,omitempty"`
	OptionType  string         `json:"optionType,omitempty"`
	Name        string         `json:"name,omitempty"`
	Required    bool           `json:"required,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

// Edge is a directed connection between two nodes.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the full persisted command graph for one guild command.
type Graph struct {
	ID      string `json:"id"`
	GuildID string `json:"guildId"`
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
}

// Decode parses persisted node and edge JSON into a Graph. Empty inputs
// decode to empty slices, matching a freshly created command with no graph.
func Decode(id, guildID, nodesJSON, edgesJSON string) (*Graph, error) {
	g := &Graph{ID: id, GuildID: guildID}
	if nodesJSON != "" {
		if err := json.Unmarshal([]byte(nodesJSON), &g.Nodes); err != nil {
			return nil, fmt.Errorf("graph: decode nodes: %w", err)
		}
	}
	if edgesJSON != "" {
		if err := json.Unmarshal([]byte(edgesJSON), &g.Edges); err != nil {
			return nil, fmt.Errorf("graph: decode edges: %w", err)
		}
	}
	return g, nil
}

// StartNode returns the first node with kind start, or nil if none exists.
func (g *Graph) StartNode() *Node {
	for i := range g.Nodes {
		if g.Nodes[i].Kind == KindStart {
			return &g.Nodes[i]
		}
	}
	return nil
}

// OptionNodes returns the option nodes in node-array order. Registration
// order follows the array, not edge traversal.
func (g *Graph) OptionNodes() []Node {
	return g.nodesOfKind(KindOption)
}

// ActionNodes returns the action nodes in node-array order.
func (g *Graph) ActionNodes() []Node {
	return g.nodesOfKind(KindAction)
}

// ConditionNodes returns the condition nodes in node-array order.
func (g *Graph) ConditionNodes() []Node {
	return g.nodesOfKind(KindCondition)
}

func (g *Graph) nodesOfKind(kind string) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
