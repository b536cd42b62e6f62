package speedfog

import (
	"crypto/sha256"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rbignon/speedfog/pkg/cluster"
)

// BudgetCfg bounds total path weight (spec.md §6 "budget").
type BudgetCfg struct {
	TotalWeight int `yaml:"total_weight" json:"total_weight"`
	Tolerance   int `yaml:"tolerance" json:"tolerance"`
}

// RequirementsCfg are the minimum layer-type counts a plan must contain
// (spec.md §6 "requirements").
type RequirementsCfg struct {
	LegacyDungeons int `yaml:"legacy_dungeons" json:"legacy_dungeons"`
	MiniDungeons   int `yaml:"mini_dungeons" json:"mini_dungeons"`
	Bosses         int `yaml:"bosses" json:"bosses"`
}

// StructureCfg controls layer count, branching, and the major-boss/final-
// boss selection policy (spec.md §6 "structure").
type StructureCfg struct {
	MinLayers           int      `yaml:"min_layers" json:"min_layers"`
	MaxLayers           int      `yaml:"max_layers" json:"max_layers"`
	MaxParallelPaths    int      `yaml:"max_parallel_paths" json:"max_parallel_paths"`
	MajorBossRatio      float64  `yaml:"major_boss_ratio" json:"major_boss_ratio"`
	FirstLayerType      string   `yaml:"first_layer_type,omitempty" json:"first_layer_type,omitempty"`
	FinalBossCandidates []string `yaml:"final_boss_candidates,omitempty" json:"final_boss_candidates,omitempty"`
}

// Config is the full run configuration (spec.md §6). Seed of 0 signals
// auto-reroll: the retry loop draws a fresh per-attempt seed from an
// OS-seeded RNG instead of reusing a fixed one.
type Config struct {
	Seed         uint64          `yaml:"seed" json:"seed"`
	Budget       BudgetCfg       `yaml:"budget" json:"budget"`
	Requirements RequirementsCfg `yaml:"requirements" json:"requirements"`
	Structure    StructureCfg    `yaml:"structure" json:"structure"`
}

// LoadConfig reads and validates a run configuration from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("speedfog: reading config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses and validates a run configuration already in
// memory.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("speedfog: parsing config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every numeric range, enum, and zone reference named in
// spec.md §7. It does not consult a cluster pool, so zone references are
// checked separately by ValidateAgainstPool once a pool is available.
func (c *Config) Validate() error {
	if c.Budget.TotalWeight < 0 {
		return &ConfigError{Field: "budget.total_weight", Reason: "must be >= 0"}
	}
	if c.Budget.Tolerance < 0 {
		return &ConfigError{Field: "budget.tolerance", Reason: "must be >= 0"}
	}
	if c.Requirements.LegacyDungeons < 0 {
		return &ConfigError{Field: "requirements.legacy_dungeons", Reason: "must be >= 0"}
	}
	if c.Requirements.MiniDungeons < 0 {
		return &ConfigError{Field: "requirements.mini_dungeons", Reason: "must be >= 0"}
	}
	if c.Requirements.Bosses < 0 {
		return &ConfigError{Field: "requirements.bosses", Reason: "must be >= 0"}
	}
	if c.Structure.MinLayers < 0 {
		return &ConfigError{Field: "structure.min_layers", Reason: "must be >= 0"}
	}
	if c.Structure.MaxLayers < c.Structure.MinLayers {
		return &ConfigError{Field: "structure.max_layers", Reason: "must be >= min_layers"}
	}
	if c.Structure.MaxParallelPaths < 1 {
		return &ConfigError{Field: "structure.max_parallel_paths", Reason: "must be >= 1"}
	}
	if c.Structure.MajorBossRatio < 0.0 || c.Structure.MajorBossRatio > 1.0 {
		return &ConfigError{Field: "structure.major_boss_ratio", Reason: fmt.Sprintf("must be in [0,1], got %f", c.Structure.MajorBossRatio)}
	}
	if c.Structure.FirstLayerType != "" {
		t, ok := cluster.ParseType(c.Structure.FirstLayerType)
		if !ok || !isIntermediateLayerType(t) {
			return &ConfigError{Field: "structure.first_layer_type", Reason: fmt.Sprintf("unknown type %q", c.Structure.FirstLayerType)}
		}
	}
	return nil
}

// isIntermediateLayerType reports whether t is one of the types a
// generated layer can actually hold (spec.md §6 "first_layer_type"):
// start and final_boss are structural roles assigned by the generator
// itself, never planned as an intermediate layer.
func isIntermediateLayerType(t cluster.Type) bool {
	switch t {
	case cluster.LegacyDungeon, cluster.MiniDungeon, cluster.BossArena, cluster.MajorBoss:
		return true
	default:
		return false
	}
}

// ValidateAgainstPool checks that every zone named in
// structure.final_boss_candidates exists in pool (spec.md §7).
func (c *Config) ValidateAgainstPool(pool *cluster.Pool) error {
	if len(c.Structure.FinalBossCandidates) == 0 {
		return nil
	}
	known := map[string]bool{}
	for _, cl := range pool.All() {
		for _, z := range cl.Zones {
			known[z] = true
		}
	}
	for _, z := range c.Structure.FinalBossCandidates {
		if !known[z] {
			return &ConfigError{Field: "structure.final_boss_candidates", Reason: fmt.Sprintf("unknown zone %q", z)}
		}
	}
	return nil
}

// Hash computes a deterministic digest of the configuration, used to
// derive per-stage RNG seeds alongside the master seed.
func (c *Config) Hash() []byte {
	data, err := yaml.Marshal(c)
	if err != nil {
		h := sha256.Sum256([]byte(fmt.Sprintf("seed:%d", c.Seed)))
		return h[:]
	}
	h := sha256.Sum256(data)
	return h[:]
}
