package vision

import (
	"sort"

	"flyff-assist/internal/geom"
)

type ranked struct {
	target   *Target
	distance int
}

// FindClosest ranks targets by the distance from their attack point to
// center and returns the closest eligible one, or nil.
//
// When there is more than one candidate, aggressive mobs must lie within
// ceiling/2 and everything else within ceiling. If that would leave one
// candidate or none, the ceiling is ignored. With a non-nil avoid list,
// targets whose attack point lies in a live avoided area are skipped and
// nil is returned if nothing else remains.
func FindClosest(targets []Target, avoid *AvoidanceList, ceiling int, center geom.Point) *Target {
	candidates := make([]ranked, 0, len(targets))
	for i := range targets {
		candidates = append(candidates, ranked{
			target:   &targets[i],
			distance: targets[i].AttackCoords().Distance(center),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if len(candidates) > 1 {
		inRange := make([]ranked, 0, len(candidates))
		for _, c := range candidates {
			if c.distance <= categoryCeiling(c.target.Category, ceiling) {
				inRange = append(inRange, c)
			}
		}
		if len(inRange) > 1 {
			candidates = inRange
		}
	}

	for _, c := range candidates {
		if avoid != nil && avoid.IsAvoided(c.target.AttackCoords()) {
			continue
		}
		return c.target
	}
	return nil
}

func categoryCeiling(category Category, ceiling int) int {
	if category == MobAggressive {
		return ceiling / 2
	}
	return ceiling
}
