package layer

import (
	"fmt"

	"github.com/rbignon/speedfog/pkg/cluster"
	"github.com/rbignon/speedfog/pkg/rng"
)

// Requirements are the minimum counts of each dungeon-type layer the plan
// must contain (spec.md §6 "requirements").
type Requirements struct {
	LegacyDungeons int
	MiniDungeons   int
	Bosses         int
}

// Params are the layer planner's inputs (spec.md §4.4).
type Params struct {
	Requirements   Requirements
	MinLayers      int
	MaxLayers      int
	MajorBossRatio float64
	FirstLayerType *cluster.Type // nil means unconstrained
}

// PlanLayers samples a total intermediate-layer count and returns the
// cluster-type label for each intermediate layer, in order.
func PlanLayers(p Params, r *rng.RNG) ([]cluster.Type, error) {
	if p.MinLayers < 0 || p.MaxLayers < p.MinLayers {
		return nil, fmt.Errorf("layer: invalid layer bounds [%d,%d]", p.MinLayers, p.MaxLayers)
	}

	total := r.IntRange(p.MinLayers, p.MaxLayers)

	list := make([]cluster.Type, 0, total)
	for i := 0; i < p.Requirements.LegacyDungeons; i++ {
		list = append(list, cluster.LegacyDungeon)
	}
	for i := 0; i < p.Requirements.MiniDungeons; i++ {
		list = append(list, cluster.MiniDungeon)
	}
	for i := 0; i < p.Requirements.Bosses; i++ {
		list = append(list, cluster.BossArena)
	}

	for len(list) < total {
		list = append(list, cluster.MiniDungeon)
	}
	list = list[:total]

	applyMajorBossRatio(list, total, p.MajorBossRatio, r)

	if p.FirstLayerType != nil && total > 0 {
		forceFirstLayerType(list, *p.FirstLayerType)
	}

	return list, nil
}

// applyMajorBossRatio overwrites floor(total*ratio) positions, chosen
// uniformly without replacement from [0, total-2] (the last slot is
// reserved for the merge into the final boss), with MajorBoss, then
// shuffles the remaining positions' values among themselves.
func applyMajorBossRatio(list []cluster.Type, total int, ratio float64, r *rng.RNG) {
	count := int(float64(total) * ratio)

	candidateCount := total - 1 // size of index range [0, total-2]
	if candidateCount < 0 {
		candidateCount = 0
	}
	if count > candidateCount {
		count = candidateCount
	}
	if count < 0 {
		count = 0
	}

	chosen := make(map[int]bool, count)
	if count > 0 {
		indices := make([]int, candidateCount)
		for i := range indices {
			indices[i] = i
		}
		r.Shuffle(len(indices), func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })

		for i := 0; i < count; i++ {
			chosen[indices[i]] = true
			list[indices[i]] = cluster.MajorBoss
		}
	}

	remainingIdx := make([]int, 0, total-count)
	for i := 0; i < total; i++ {
		if !chosen[i] {
			remainingIdx = append(remainingIdx, i)
		}
	}
	remainingVals := make([]cluster.Type, len(remainingIdx))
	for i, idx := range remainingIdx {
		remainingVals[i] = list[idx]
	}
	r.Shuffle(len(remainingVals), func(i, j int) {
		remainingVals[i], remainingVals[j] = remainingVals[j], remainingVals[i]
	})
	for i, idx := range remainingIdx {
		list[idx] = remainingVals[i]
	}
}

// forceFirstLayerType forces index 0 to desired, dropping one previously
// required label of that type elsewhere if present (by swapping it into
// index 0), otherwise overwriting whatever padding slot held index 0.
func forceFirstLayerType(list []cluster.Type, desired cluster.Type) {
	if list[0] == desired {
		return
	}
	for j := 1; j < len(list); j++ {
		if list[j] == desired {
			list[0], list[j] = list[j], list[0]
			return
		}
	}
	list[0] = desired
}
