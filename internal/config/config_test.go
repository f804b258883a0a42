package config

import (
	"os"
	"testing"
)

func TestValidateNodeRosterConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *NodeRosterConfig
		wantErr bool
	}{
		{
			name: "valid config",
			config: &NodeRosterConfig{
				Connection: ConnectionConfig{Kind: "serial", Port: "/dev/ttyUSB0"},
				Nodes: []NodeEntry{
					{Name: "Panel1", NodeAddress: 0, Sort: SortCpnode},
				},
			},
			wantErr: false,
		},
		{
			name: "empty nodes",
			config: &NodeRosterConfig{
				Connection: ConnectionConfig{Kind: "serial", Port: "/dev/ttyUSB0"},
			},
			wantErr: true,
		},
		{
			name: "invalid sort",
			config: &NodeRosterConfig{
				Connection: ConnectionConfig{Kind: "serial", Port: "/dev/ttyUSB0"},
				Nodes: []NodeEntry{
					{Name: "Panel1", NodeAddress: 0, Sort: "bogus"},
				},
			},
			wantErr: true,
		},
		{
			name: "node address out of range",
			config: &NodeRosterConfig{
				Connection: ConnectionConfig{Kind: "serial", Port: "/dev/ttyUSB0"},
				Nodes: []NodeEntry{
					{Name: "Panel1", NodeAddress: 128, Sort: SortCpnode},
				},
			},
			wantErr: true,
		},
		{
			name: "duplicate node address",
			config: &NodeRosterConfig{
				Connection: ConnectionConfig{Kind: "serial", Port: "/dev/ttyUSB0"},
				Nodes: []NodeEntry{
					{Name: "Panel1", NodeAddress: 0, Sort: SortCpnode},
					{Name: "Panel2", NodeAddress: 0, Sort: SortSmini},
				},
			},
			wantErr: true,
		},
		{
			name: "serial connection missing port",
			config: &NodeRosterConfig{
				Connection: ConnectionConfig{Kind: "serial"},
				Nodes: []NodeEntry{
					{Name: "Panel1", NodeAddress: 0, Sort: SortCpnode},
				},
			},
			wantErr: true,
		},
		{
			name: "tcp connection missing address",
			config: &NodeRosterConfig{
				Connection: ConnectionConfig{Kind: "tcp"},
				Nodes: []NodeEntry{
					{Name: "Panel1", NodeAddress: 0, Sort: SortCpnode},
				},
			},
			wantErr: true,
		},
		{
			name: "unknown connection kind",
			config: &NodeRosterConfig{
				Connection: ConnectionConfig{Kind: "carrier pigeon"},
				Nodes: []NodeEntry{
					{Name: "Panel1", NodeAddress: 0, Sort: SortCpnode},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeRosterConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeRosterConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	configContent := `
connection:
  kind: serial
  port: /dev/ttyUSB0
  baud: 19200

nodes:
  - name: Panel1
    node_address: 0
    sort: cpnode
    options:
      input_bytes: 2
      output_bytes: 2
`
	if _, err := tmpfile.WriteString(configContent); err != nil {
		t.Fatalf("write config: %v", err)
	}
	tmpfile.Close()

	cfg, err := LoadConfig(tmpfile.Name(), false)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Connection.Port != "/dev/ttyUSB0" {
		t.Errorf("connection port: got %q, want %q", cfg.Connection.Port, "/dev/ttyUSB0")
	}
	if len(cfg.Nodes) != 1 {
		t.Errorf("nodes: got %d, want 1", len(cfg.Nodes))
	}
}

func TestLoadConfigDefaultsBaud(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	configContent := `
connection:
  kind: serial
  port: /dev/ttyUSB0

nodes:
  - name: Panel1
    node_address: 0
    sort: cpnode
`
	if _, err := tmpfile.WriteString(configContent); err != nil {
		t.Fatalf("write config: %v", err)
	}
	tmpfile.Close()

	cfg, err := LoadConfig(tmpfile.Name(), false)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Connection.Baud != 19200 {
		t.Errorf("connection baud: got %d, want 19200 (default)", cfg.Connection.Baud)
	}
}

func TestLoadConfigAutoCreate(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"

	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(cfg.Nodes) == 0 {
		t.Fatal("expected auto-created config to have default nodes")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
}

func TestLoadConfigMissingNoAutoCreate(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/path/config.yaml", false); err == nil {
		t.Fatal("expected error for missing config without autoCreate")
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := &NodeRosterConfig{Connection: ConnectionConfig{Kind: "serial", Port: "/dev/ttyUSB0"}}
	ApplyPreset(cfg, "signal_tower")
	if len(cfg.Nodes) != 1 {
		t.Fatalf("expected 1 node from preset, got %d", len(cfg.Nodes))
	}

	// Applying again should not duplicate the same node address.
	ApplyPreset(cfg, "signal_tower")
	if len(cfg.Nodes) != 1 {
		t.Fatalf("expected preset reapplication to be a no-op, got %d nodes", len(cfg.Nodes))
	}
}
