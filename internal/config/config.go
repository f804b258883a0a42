package config

// Configuration loading and validation for a CMRInet node roster.

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robertgauld/cmri/internal/errors"
)

// NodeSortName is the YAML spelling of a node's NDP type.
type NodeSortName string

const (
	SortUsic   NodeSortName = "usic"
	SortSusic  NodeSortName = "susic"
	SortSmini  NodeSortName = "smini"
	SortCpnode NodeSortName = "cpnode"
	SortCpmega NodeSortName = "cpmega"
)

// ConnectionConfig describes the transport used to reach the CMRInet bus.
type ConnectionConfig struct {
	Kind    string `yaml:"kind"` // "serial" or "tcp"
	Port    string `yaml:"port,omitempty"`
	Baud    uint32 `yaml:"baud,omitempty"`
	Address string `yaml:"address,omitempty"`
}

// NodeLabels names the individual input/output bits of a node, keyed by
// bit index, for display in tooling.
type NodeLabels struct {
	Inputs  map[int]string `yaml:"inputs,omitempty"`
	Outputs map[int]string `yaml:"outputs,omitempty"`
}

// NodeEntry describes a single node on the bus.
type NodeEntry struct {
	Name        string         `yaml:"name"`
	NodeAddress uint8          `yaml:"node_address"`
	Sort        NodeSortName   `yaml:"sort"`
	Options     map[string]any `yaml:"options,omitempty"`
	Labels      *NodeLabels    `yaml:"labels,omitempty"`
}

// NodeRosterConfig is the top level CMRInet configuration: a connection
// and the nodes that are expected to answer on it.
type NodeRosterConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Nodes      []NodeEntry      `yaml:"nodes"`
}

// CreateDefaultNodeRosterConfig creates a default configuration: one
// serial connection and a single CPNODE with 16 inputs and 16 outputs.
func CreateDefaultNodeRosterConfig() *NodeRosterConfig {
	return &NodeRosterConfig{
		Connection: ConnectionConfig{
			Kind: "serial",
			Port: "/dev/ttyUSB0",
			Baud: 19200,
		},
		Nodes: []NodeEntry{
			{
				Name:        "Panel1",
				NodeAddress: 0,
				Sort:        SortCpnode,
				Options: map[string]any{
					"input_bytes":  2,
					"output_bytes": 2,
				},
			},
		},
	}
}

// WriteDefaultConfig writes a default node roster configuration to path.
func WriteDefaultConfig(path string) error {
	cfg := CreateDefaultNodeRosterConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// LoadConfig loads a node roster configuration from a YAML file. If the
// file doesn't exist and autoCreate is true, a default config is
// written and then loaded.
func LoadConfig(path string, autoCreate bool) (*NodeRosterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if autoCreate {
				if err := WriteDefaultConfig(path); err != nil {
					return nil, fmt.Errorf("create default config: %w", err)
				}
				data, err = os.ReadFile(path)
				if err != nil {
					return nil, errors.WrapConnectionError(
						fmt.Errorf("read created config file: %w", err),
						path,
					)
				}
			} else {
				return nil, errors.WrapConnectionError(
					fmt.Errorf("config file not found: %s", path),
					path,
				)
			}
		} else {
			return nil, errors.WrapConnectionError(
				fmt.Errorf("read config file: %w", err),
				path,
			)
		}
	}

	var cfg NodeRosterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	if cfg.Connection.Kind == "" {
		cfg.Connection.Kind = "serial"
	}
	if cfg.Connection.Kind == "serial" && cfg.Connection.Baud == 0 {
		cfg.Connection.Baud = 19200
	}

	if err := ValidateNodeRosterConfig(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// ValidateNodeRosterConfig validates a node roster configuration.
func ValidateNodeRosterConfig(cfg *NodeRosterConfig) error {
	if err := validateConnection(cfg.Connection); err != nil {
		return err
	}

	if len(cfg.Nodes) == 0 {
		return fmt.Errorf("nodes must have at least one entry")
	}

	seen := make(map[uint8]string, len(cfg.Nodes))
	for i, node := range cfg.Nodes {
		if err := validateNodeEntry(node, i); err != nil {
			return err
		}
		if other, ok := seen[node.NodeAddress]; ok {
			return fmt.Errorf("nodes[%d]: node_address %d already used by %q", i, node.NodeAddress, other)
		}
		seen[node.NodeAddress] = node.Name
	}

	return nil
}

func validateConnection(conn ConnectionConfig) error {
	switch conn.Kind {
	case "serial":
		if conn.Port == "" {
			return fmt.Errorf("connection.port is required for a serial connection")
		}
	case "tcp":
		if conn.Address == "" {
			return fmt.Errorf("connection.address is required for a tcp connection")
		}
	default:
		return fmt.Errorf("connection.kind must be 'serial' or 'tcp', got %q", conn.Kind)
	}
	return nil
}

func validateNodeEntry(node NodeEntry, index int) error {
	if node.Name == "" {
		return fmt.Errorf("nodes[%d]: name is required", index)
	}
	if node.NodeAddress > 127 {
		return fmt.Errorf("nodes[%d]: node_address must be 0-127, got %d", index, node.NodeAddress)
	}

	switch node.Sort {
	case SortUsic, SortSusic, SortSmini, SortCpnode, SortCpmega:
	default:
		return fmt.Errorf("nodes[%d]: sort must be one of usic, susic, smini, cpnode, cpmega, got %q", index, node.Sort)
	}

	if node.Labels != nil {
		for bit := range node.Labels.Inputs {
			if bit < 0 {
				return fmt.Errorf("nodes[%d]: labels.inputs has a negative bit index", index)
			}
		}
		for bit := range node.Labels.Outputs {
			if bit < 0 {
				return fmt.Errorf("nodes[%d]: labels.outputs has a negative bit index", index)
			}
		}
	}

	return nil
}

// knownOptionKeys lists the option keys recognized per node sort. It is
// exposed through KnownOptionKeys; ValidateNodeRosterConfig does not
// consult it.
var knownOptionKeys = map[NodeSortName][]string{
	SortUsic:   {"cards", "transmit_delay"},
	SortSusic:  {"cards", "transmit_delay"},
	SortSmini:  {"transmit_delay"},
	SortCpnode: {"input_bytes", "output_bytes", "transmit_delay"},
	SortCpmega: {"input_bytes", "output_bytes", "transmit_delay"},
}

// KnownOptionKeys returns the option keys recognized for sort.
func KnownOptionKeys(sort NodeSortName) []string {
	return knownOptionKeys[sort]
}
