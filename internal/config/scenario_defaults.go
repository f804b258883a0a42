package config

// PresetRoster returns the node entries for one of the built-in layout
// presets, for quickly populating a new roster config.
func PresetRoster(name string) []NodeEntry {
	return presetRosters()[name]
}

// PresetNames lists the built-in preset layouts, for help text.
func PresetNames() []string {
	presets := presetRosters()
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}

func presetRosters() map[string][]NodeEntry {
	return map[string][]NodeEntry{
		"signal_tower": {
			{
				Name:        "TowerA",
				NodeAddress: 0,
				Sort:        SortCpnode,
				Options: map[string]any{
					"input_bytes":  2,
					"output_bytes": 3,
				},
				Labels: &NodeLabels{
					Inputs:  map[int]string{0: "Signal1Clear", 1: "Signal1Occupied"},
					Outputs: map[int]string{0: "Signal1Red", 1: "Signal1Yellow", 2: "Signal1Green"},
				},
			},
		},
		"yard_throat": {
			{
				Name:        "YardSMINI",
				NodeAddress: 1,
				Sort:        SortSmini,
			},
		},
		"crossing": {
			{
				Name:        "Crossing1",
				NodeAddress: 2,
				Sort:        SortCpmega,
				Options: map[string]any{
					"input_bytes":  4,
					"output_bytes": 2,
				},
				Labels: &NodeLabels{
					Inputs:  map[int]string{0: "TrackCircuit1", 1: "TrackCircuit2"},
					Outputs: map[int]string{0: "FlasherEnable", 1: "Gate"},
				},
			},
		},
		"classic_usic": {
			{
				Name:        "Panel1",
				NodeAddress: 3,
				Sort:        SortUsic,
				Options: map[string]any{
					"cards": []map[string]any{
						{"kind": "input", "oscillating": false},
						{"kind": "output"},
					},
				},
			},
		},
	}
}

// ApplyPreset appends a preset's nodes to cfg, without touching nodes
// already present. Node addresses already in use by cfg are skipped.
func ApplyPreset(cfg *NodeRosterConfig, preset string) {
	used := make(map[uint8]bool, len(cfg.Nodes))
	for _, n := range cfg.Nodes {
		used[n.NodeAddress] = true
	}
	for _, n := range PresetRoster(preset) {
		if used[n.NodeAddress] {
			continue
		}
		cfg.Nodes = append(cfg.Nodes, n)
		used[n.NodeAddress] = true
	}
}
