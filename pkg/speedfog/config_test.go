package speedfog_test

import (
	"strings"
	"testing"

	"github.com/rbignon/speedfog/pkg/cluster"
	"github.com/rbignon/speedfog/pkg/speedfog"
)

func validConfigYAML() []byte {
	return []byte(`
seed: 42
budget:
  total_weight: 30
  tolerance: 5
requirements:
  legacy_dungeons: 1
  mini_dungeons: 2
  bosses: 1
structure:
  min_layers: 2
  max_layers: 4
  max_parallel_paths: 2
  major_boss_ratio: 0.25
  first_layer_type: mini_dungeon
  final_boss_candidates: ["farum_azula"]
`)
}

func TestLoadConfigFromBytes_Valid(t *testing.T) {
	cfg, err := speedfog.LoadConfigFromBytes(validConfigYAML())
	if err != nil {
		t.Fatalf("LoadConfigFromBytes: %v", err)
	}
	if cfg.Seed != 42 {
		t.Fatalf("expected seed 42, got %d", cfg.Seed)
	}
	if cfg.Budget.TotalWeight != 30 || cfg.Budget.Tolerance != 5 {
		t.Fatalf("unexpected budget: %+v", cfg.Budget)
	}
	if cfg.Structure.FirstLayerType != "mini_dungeon" {
		t.Fatalf("unexpected first layer type: %s", cfg.Structure.FirstLayerType)
	}
}

func TestConfig_Validate_NegativeTolerance(t *testing.T) {
	cfg, _ := speedfog.LoadConfigFromBytes(validConfigYAML())
	cfg.Budget.Tolerance = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for negative tolerance")
	}
	if !strings.Contains(err.Error(), "tolerance") {
		t.Fatalf("expected tolerance in error, got: %v", err)
	}
}

func TestConfig_Validate_BadMajorBossRatio(t *testing.T) {
	cfg, _ := speedfog.LoadConfigFromBytes(validConfigYAML())
	cfg.Structure.MajorBossRatio = 1.5
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for major_boss_ratio out of range")
	}
	var cfgErr *speedfog.ConfigError
	if !asConfigError(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if cfgErr.Field != "structure.major_boss_ratio" {
		t.Fatalf("unexpected field: %s", cfgErr.Field)
	}
}

func TestConfig_Validate_UnknownFirstLayerType(t *testing.T) {
	cfg, _ := speedfog.LoadConfigFromBytes(validConfigYAML())
	cfg.Structure.FirstLayerType = "not_a_real_type"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown first_layer_type")
	}
}

func TestConfig_Validate_FirstLayerTypeOutOfEnum(t *testing.T) {
	cfg, _ := speedfog.LoadConfigFromBytes(validConfigYAML())
	for _, bad := range []string{"start", "final_boss"} {
		cfg.Structure.FirstLayerType = bad
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for first_layer_type %q, a structural role not a planned layer", bad)
		}
	}
}

func TestConfig_Validate_MaxLessThanMin(t *testing.T) {
	cfg, _ := speedfog.LoadConfigFromBytes(validConfigYAML())
	cfg.Structure.MinLayers = 5
	cfg.Structure.MaxLayers = 2
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max_layers < min_layers")
	}
}

func TestConfig_ValidateAgainstPool_UnknownZone(t *testing.T) {
	cfg, _ := speedfog.LoadConfigFromBytes(validConfigYAML())
	cfg.Structure.FinalBossCandidates = []string{"not_a_real_zone"}
	pool := cluster.NewPool([]*cluster.Cluster{
		{ID: "start", Zones: []string{"limgrave"}, Type: cluster.Start},
	})
	if err := cfg.ValidateAgainstPool(pool); err == nil {
		t.Fatal("expected error for unknown zone in final_boss_candidates")
	}
}

func TestConfig_ValidateAgainstPool_KnownZone(t *testing.T) {
	cfg, _ := speedfog.LoadConfigFromBytes(validConfigYAML())
	cfg.Structure.FinalBossCandidates = []string{"farum_azula"}
	pool := cluster.NewPool([]*cluster.Cluster{
		{ID: "final", Zones: []string{"farum_azula"}, Type: cluster.FinalBoss},
	})
	if err := cfg.ValidateAgainstPool(pool); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfig_Hash_Deterministic(t *testing.T) {
	cfg1, _ := speedfog.LoadConfigFromBytes(validConfigYAML())
	cfg2, _ := speedfog.LoadConfigFromBytes(validConfigYAML())
	h1 := cfg1.Hash()
	h2 := cfg2.Hash()
	if string(h1) != string(h2) {
		t.Fatal("expected identical config hashes for identical configs")
	}
	cfg2.Seed = 7
	h3 := cfg2.Hash()
	if string(h1) == string(h3) {
		t.Fatal("expected different hashes after changing seed")
	}
}

func asConfigError(err error, target **speedfog.ConfigError) bool {
	ce, ok := err.(*speedfog.ConfigError)
	if !ok {
		return false
	}
	*target = ce
	return true
}
