// Package seed holds the initial data set the server boots with.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"zelapb/api/internal/store"
)

//go:embed default.yaml
var defaultSeed []byte

// Load parses the seed at path, or the embedded default when path is empty.
// Instructions without a timestamp are stamped with now.
func Load(path string, now time.Time) (store.Snapshot, error) {
	raw := defaultSeed
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return store.Snapshot{}, fmt.Errorf("read seed %s: %w", path, err)
		}
		raw = data
	}
	return Parse(raw, now)
}

func Parse(raw []byte, now time.Time) (store.Snapshot, error) {
	var snap store.Snapshot
	if err := yaml.Unmarshal(raw, &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("parse seed: %w", err)
	}
	for i := range snap.Instructions {
		if snap.Instructions[i].Timestamp.IsZero() {
			snap.Instructions[i].Timestamp = now
		}
		if snap.Instructions[i].TargetRole == "" {
			snap.Instructions[i].TargetRole = store.InstructionTargetAll
		}
	}
	for _, report := range snap.Reports {
		if !report.Priority.Valid() || !report.Status.Valid() {
			return store.Snapshot{}, fmt.Errorf("seed report %q: invalid priority or status", report.ID)
		}
	}
	for _, m := range snap.Municipalities {
		if !m.Status.Valid() {
			return store.Snapshot{}, fmt.Errorf("seed municipality %q: invalid status %q", m.ID, m.Status)
		}
	}
	return snap, nil
}
