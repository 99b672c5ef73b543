package circuit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/roach88/qdist/internal/ir"
)

// Circuit is a placed gate stream ready for compilation.
type Circuit struct {
	Name  string
	Nodes ir.NodeMap
	Gates []ir.Gate
}

type fileCircuit struct {
	Name  string       `yaml:"name"`
	Nodes yaml.Node    `yaml:"nodes"`
	Gates []fileRecord `yaml:"gates"`
}

type fileRecord struct {
	Type        string    `yaml:"type"`
	Qubits      []int     `yaml:"qubits"`
	Params      []float64 `yaml:"params,omitempty"`
	GlobalPhase float64   `yaml:"global_phase,omitempty"`
}

// Load reads and parses a circuit file.
func Load(path string) (*Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read circuit file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a circuit document. Unknown fields are rejected. Problems
// with the placement or gate types are reported as ir errors.
func Parse(data []byte) (*Circuit, error) {
	var fc fileCircuit
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ir.NewMalformedError(-1, "empty circuit document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if fc.Name == "" {
		return nil, ir.NewMalformedError(-1, "name is required")
	}

	nodes, err := decodeNodes(&fc.Nodes)
	if err != nil {
		return nil, err
	}

	gates := make([]ir.Gate, len(fc.Gates))
	for i, r := range fc.Gates {
		t, err := ir.ParseGateType(r.Type)
		if err != nil {
			return nil, ir.NewUnsupportedGateError(i, "unsupported gate type %q", r.Type)
		}
		g := ir.NewGate(t, r.Qubits, r.Params...)
		g.GlobalPhase = r.GlobalPhase
		gates[i] = g
	}

	return &Circuit{Name: fc.Name, Nodes: nodes, Gates: gates}, nil
}

// decodeNodes accepts the placement as a list indexed by qubit or as a
// qubit to node map.
func decodeNodes(n *yaml.Node) (ir.NodeMap, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		var list []int
		if err := n.Decode(&list); err != nil {
			return ir.NodeMap{}, ir.NewMalformedError(-1, "nodes: %v", err)
		}
		return ir.NewNodeMap(list)
	case yaml.MappingNode:
		var m map[int]int
		if err := n.Decode(&m); err != nil {
			return ir.NodeMap{}, ir.NewMalformedError(-1, "nodes: %v", err)
		}
		return ir.NodeMapFromMap(m)
	case 0:
		return ir.NodeMap{}, ir.NewMalformedError(-1, "nodes is required")
	default:
		return ir.NodeMap{}, ir.NewMalformedError(-1, "nodes must be a list or a map, got %s", kindName(n.Kind))
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return strconv.Itoa(int(k))
}

// Encode renders c in the circuit file format.
func Encode(c *Circuit) ([]byte, error) {
	out := struct {
		Name  string       `yaml:"name"`
		Nodes []int        `yaml:"nodes,flow"`
		Gates []fileRecord `yaml:"gates"`
	}{Name: c.Name, Nodes: c.Nodes.Slice()}
	for _, g := range c.Gates {
		out.Gates = append(out.Gates, fileRecord{
			Type:        g.Type.String(),
			Qubits:      g.Qubits,
			Params:      g.Params,
			GlobalPhase: g.GlobalPhase,
		})
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode circuit: %w", err)
	}
	return data, nil
}
