package graph

import "testing"

func sampleGraph() *Graph {
	return &Graph{
		ID:      "g1",
		GuildID: "123",
		Nodes: []Node{
			{ID: "n1", Kind: KindStart, Label: "warn-user", Description: "warn a member"},
			{ID: "n2", Kind: KindOption, OptionType: OptionUser, Name: "user", Required: true},
			{ID: "n3", Kind: KindAction, Label: "send message", Data: map[string]any{"content": "done"}},
			{ID: "n4", Kind: KindCondition, Label: "has role", Data: map[string]any{"role": "mod"}},
		},
		Edges: []Edge{
			{From: "n1", To: "n2"},
			{From: "n2", To: "n4"},
			{From: "n4", To: "n3"},
		},
	}
}

func TestStartNode(t *testing.T) {
	g := sampleGraph()
	start := g.StartNode()
	if start == nil {
		t.Fatal("StartNode() = nil, want n1")
	}
	if start.ID != "n1" {
		t.Errorf("StartNode().ID = %q, want n1", start.ID)
	}
}

func TestStartNode_Missing(t *testing.T) {
	g := &Graph{Nodes: []Node{{ID: "n1", Kind: KindAction}}}
	if got := g.StartNode(); got != nil {
		t.Errorf("StartNode() = %+v, want nil", got)
	}
}

func TestNodeAccessors(t *testing.T) {
	g := sampleGraph()

	if opts := g.OptionNodes(); len(opts) != 1 || opts[0].ID != "n2" {
		t.Errorf("OptionNodes() = %+v, want [n2]", opts)
	}
	if acts := g.ActionNodes(); len(acts) != 1 || acts[0].ID != "n3" {
		t.Errorf("ActionNodes() = %+v, want [n3]", acts)
	}
	if conds := g.ConditionNodes(); len(conds) != 1 || conds[0].ID != "n4" {
		t.Errorf("ConditionNodes() = %+v, want [n4]", conds)
	}
}

func TestOptionNodes_PreservesArrayOrder(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "s", Kind: KindStart, Label: "x"},
			{ID: "c", Kind: KindOption, OptionType: OptionString, Name: "c"},
			{ID: "a", Kind: KindOption, OptionType: OptionString, Name: "a"},
			{ID: "b", Kind: KindOption, OptionType: OptionString, Name: "b"},
		},
		// Edges deliberately reorder the options; array order must win.
		Edges: []Edge{{From: "s", To: "a"}, {From: "a", To: "b"}, {From: "b", To: "c"}},
	}

	opts := g.OptionNodes()
	want := []string{"c", "a", "b"}
	if len(opts) != len(want) {
		t.Fatalf("len(OptionNodes()) = %d, want %d", len(opts), len(want))
	}
	for i, w := range want {
		if opts[i].Name != w {
			t.Errorf("OptionNodes()[%d].Name = %q, want %q", i, opts[i].Name, w)
		}
	}
}

func TestDecode(t *testing.T) {
	nodes := `[{"id":"n1","kind":"start","label":"ping","description":"pong"},
	           {"id":"n2","kind":"option","optionType":"string","name":"text","required":true}]`
	edges := `[{"from":"n1","to":"n2"}]`

	g, err := Decode("g1", "42", nodes, edges)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if g.GuildID != "42" {
		t.Errorf("GuildID = %q, want 42", g.GuildID)
	}
	if len(g.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(g.Nodes))
	}
	if g.Nodes[1].OptionType != OptionString || !g.Nodes[1].Required {
		t.Errorf("Nodes[1] = %+v, want string option, required", g.Nodes[1])
	}
	if len(g.Edges) != 1 || g.Edges[0].From != "n1" {
		t.Errorf("Edges = %+v, want [{n1 n2}]", g.Edges)
	}
}

func TestDecode_EmptyJSON(t *testing.T) {
	g, err := Decode("g1", "42", "", "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(g.Nodes) != 0 || len(g.Edges) != 0 {
		t.Errorf("empty JSON should decode to empty graph, got %+v", g)
	}
}

func TestDecode_MalformedNodes(t *testing.T) {
	_, err := Decode("g1", "42", "{not json", "")
	if err == nil {
		t.Fatal("expected error for malformed node JSON")
	}
}
