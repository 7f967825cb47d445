package priority

import (
	"sort"
	"time"

	"taskboard/internal/model"
)

// legacyRank is the historical 3-way priority ordering used as the primary
// sort key. Daily-tier tasks carry no mapping and always sort last.
var legacyRank = map[model.TaskPriority]int{
	model.PriorityHigh:   1,
	model.PriorityMedium: 2,
	model.PriorityLow:    3,
}

const unrankedPriority = 4

// SortForDisplay orders a task collection for list rendering: priority rank
// first, then priority score descending. The sort is stable, so tasks with
// equal rank and score keep their original relative order. The input slice
// is not mutated.
func SortForDisplay(tasks []model.Task, now time.Time) []model.Task {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)

	scores := make(map[string]int, len(sorted))
	for i := range sorted {
		scores[sorted[i].ID] = Score(&sorted[i], now)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := rankOf(sorted[i].Priority), rankOf(sorted[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return scores[sorted[i].ID] > scores[sorted[j].ID]
	})

	return sorted
}

func rankOf(p model.TaskPriority) int {
	if rank, ok := legacyRank[p]; ok {
		return rank
	}
	return unrankedPriority
}

// GroupByBucket splits tasks into their action-urgency buckets, keeping the
// sorted order within each bucket.
func GroupByBucket(tasks []model.Task, now time.Time) map[Bucket][]model.Task {
	grouped := make(map[Bucket][]model.Task, len(Buckets))
	for _, task := range SortForDisplay(tasks, now) {
		bucket := Categorize(&task, now)
		grouped[bucket] = append(grouped[bucket], task)
	}
	return grouped
}
