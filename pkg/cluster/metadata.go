package cluster

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ZoneMeta carries per-zone overrides (spec.md §6 "Cluster metadata document").
type ZoneMeta struct {
	Weight              *int  `yaml:"weight"`
	AllowSharedEntrance *bool `yaml:"allow_shared_entrance"`
}

// Metadata is the cluster metadata document: type-level weight defaults
// and per-zone overrides.
type Metadata struct {
	Defaults map[string]int      `yaml:"defaults"`
	Zones    map[string]ZoneMeta `yaml:"zones"`
}

// LoadMetadata reads a cluster metadata document from path.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &BuildError{Reason: "reading metadata file", Err: err}
	}
	return LoadMetadataFromBytes(data)
}

// LoadMetadataFromBytes parses a cluster metadata document already in memory.
func LoadMetadataFromBytes(data []byte) (*Metadata, error) {
	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &BuildError{Reason: "invalid metadata YAML", Err: err}
	}
	if m.Defaults == nil {
		m.Defaults = map[string]int{}
	}
	if m.Zones == nil {
		m.Zones = map[string]ZoneMeta{}
	}
	return &m, nil
}

// emptyMetadata is used when no metadata document is supplied; every
// weight falls back to zero and no zone overrides apply.
func emptyMetadata() *Metadata {
	return &Metadata{Defaults: map[string]int{}, Zones: map[string]ZoneMeta{}}
}
