package speedfog

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rbignon/speedfog/pkg/balance"
	"github.com/rbignon/speedfog/pkg/cluster"
	"github.com/rbignon/speedfog/pkg/dag"
	"github.com/rbignon/speedfog/pkg/fogdb"
	"github.com/rbignon/speedfog/pkg/layer"
	"github.com/rbignon/speedfog/pkg/rng"
	"github.com/rbignon/speedfog/pkg/validate"
)

// Result bundles one successful generation attempt with its analysis
// reports (spec.md §6 "Graph document" plus the balance/validation data
// that feeds it and the spoiler document).
type Result struct {
	Seed           uint64
	Dag            *dag.Dag
	BalanceReport  *balance.Report
	ValidateReport *validate.Report
}

// BuildClusters derives the cluster document from a raw fog database and
// optional metadata document (spec.md §4.1-§4.3, the `cluster-build`
// CLI subcommand).
func BuildClusters(ctx context.Context, fogDBPath, metadataPath string) (*cluster.Doc, error) {
	db, err := fogdb.Load(ctx, fogDBPath)
	if err != nil {
		return nil, err
	}

	meta, err := loadOptionalMetadata(metadataPath)
	if err != nil {
		return nil, err
	}

	return cluster.Build(db, meta)
}

func loadOptionalMetadata(path string) (*cluster.Metadata, error) {
	if path == "" {
		return nil, nil
	}
	return cluster.LoadMetadata(path)
}

// LoadPool reads a previously built cluster document from path and
// reconstructs the in-memory pool (spec.md §6, the `generate --clusters`
// flag).
func LoadPool(ctx context.Context, path string) (*cluster.Pool, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("speedfog: reading cluster document: %w", err)
	}
	var doc cluster.Doc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("speedfog: parsing cluster document: %w", err)
	}
	clusters, err := cluster.FromDoc(&doc)
	if err != nil {
		return nil, err
	}
	return cluster.NewPool(clusters), nil
}

// GenerateWithRetry runs the full generate pipeline: layer planning, DAG
// generation, balance analysis, and validation. When cfg.Seed is 0 it
// retries up to maxAttempts times with a fresh OS-seeded attempt seed
// each time (spec.md §5, §7); a nonzero seed always runs exactly once,
// since a second attempt with the same seed would be identical. ctx
// cancellation stops the retry loop between attempts and is threaded into
// each attempt in turn.
func GenerateWithRetry(ctx context.Context, cfg *Config, pool *cluster.Pool, maxAttempts int) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ValidateAgainstPool(pool); err != nil {
		return nil, err
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	if cfg.Seed != 0 {
		return runAttempt(ctx, cfg, pool, cfg.Seed)
	}

	rerollSource := rand.New(rand.NewSource(time.Now().UnixNano()))
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		attemptSeed := rerollSource.Uint64()
		if attemptSeed == 0 {
			attemptSeed = 1
		}
		result, err := runAttempt(ctx, cfg, pool, attemptSeed)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("speedfog: generation failed after %d attempts: %w", maxAttempts, lastErr)
}

// runAttempt performs one complete, deterministic pass of the pipeline
// for a single recorded seed, checking ctx between the layer-planning and
// DAG-generation stages.
func runAttempt(ctx context.Context, cfg *Config, pool *cluster.Pool, seed uint64) (*Result, error) {
	configHash := cfg.Hash()

	layerRNG := rng.NewRNG(seed, "layer_plan", configHash)
	var firstType *cluster.Type
	if cfg.Structure.FirstLayerType != "" {
		t, ok := cluster.ParseType(cfg.Structure.FirstLayerType)
		if !ok {
			return nil, &ConfigError{Field: "structure.first_layer_type", Reason: fmt.Sprintf("unknown type %q", cfg.Structure.FirstLayerType)}
		}
		firstType = &t
	}

	layers, err := layer.PlanLayers(layer.Params{
		Requirements: layer.Requirements{
			LegacyDungeons: cfg.Requirements.LegacyDungeons,
			MiniDungeons:   cfg.Requirements.MiniDungeons,
			Bosses:         cfg.Requirements.Bosses,
		},
		MinLayers:      cfg.Structure.MinLayers,
		MaxLayers:      cfg.Structure.MaxLayers,
		MajorBossRatio: cfg.Structure.MajorBossRatio,
		FirstLayerType: firstType,
	}, layerRNG)
	if err != nil {
		return nil, fmt.Errorf("speedfog: planning layers: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	dagRNG := rng.NewRNG(seed, "dag_generate", configHash)
	d, err := dag.Generate(ctx, dag.Params{
		Layers:                  layers,
		MaxParallelPaths:        cfg.Structure.MaxParallelPaths,
		FinalBossCandidateZones: cfg.Structure.FinalBossCandidates,
	}, pool, seed, dagRNG)
	if err != nil {
		return nil, err
	}

	budget := balance.Budget{TotalWeight: cfg.Budget.TotalWeight, Tolerance: cfg.Budget.Tolerance}
	balanceReport := balance.Analyze(d, budget)

	validateReport := validate.Validate(d, validate.Params{
		Requirements: validate.Requirements{
			LegacyDungeons: cfg.Requirements.LegacyDungeons,
			MiniDungeons:   cfg.Requirements.MiniDungeons,
			Bosses:         cfg.Requirements.Bosses,
		},
		MinLayers: cfg.Structure.MinLayers,
		Budget:    budget,
	})

	result := &Result{Seed: seed, Dag: d, BalanceReport: balanceReport, ValidateReport: validateReport}
	if !validateReport.Passed {
		return result, &ValidationError{Errors: validateReport.Errors}
	}
	return result, nil
}
