package graph

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Edge is a directed connection between two nodes.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Topology is a serializable description of a compiled graph.
type Topology struct {
	Nodes       []string `json:"nodes" yaml:"nodes"`
	Edges       []Edge   `json:"edges" yaml:"edges"`
	EntryPoint  string   `json:"entryPoint" yaml:"entryPoint"`
	FinishPoint string   `json:"finishPoint" yaml:"finishPoint"`
}

// JSON encodes the topology as indented JSON.
func (t Topology) JSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// YAML encodes the topology as YAML.
func (t Topology) YAML() ([]byte, error) {
	return yaml.Marshal(t)
}

// Mermaid renders the topology as a Mermaid flowchart, including the virtual
// start and end nodes.
func (t Topology) Mermaid() string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	fmt.Fprintf(&sb, "    %s((start))\n", Start)
	for _, node := range t.Nodes {
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", node, node)
	}
	fmt.Fprintf(&sb, "    %s((end))\n", End)
	fmt.Fprintf(&sb, "    %s --> %s\n", Start, t.EntryPoint)
	for _, edge := range t.Edges {
		fmt.Fprintf(&sb, "    %s --> %s\n", edge.From, edge.To)
	}
	fmt.Fprintf(&sb, "    %s --> %s\n", t.FinishPoint, End)
	return sb.String()
}
