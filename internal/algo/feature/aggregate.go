package feature

import (
	"sort"
	"strconv"

	"github.com/drakos74/sigclass/internal/buffer"
)

// Merge aggregates the rankings of several splits.
// Features are averaged over the splits that kept them, groups are summarised over their per-split mean.
func Merge(rankings ...*Ranking) *Ranking {
	features := make(map[int]*FeatureStat)
	weights := buffer.NewStatsCollector()
	groups := buffer.NewStatsCollector()
	counts := make(map[string]int)
	order := make([]int, 0)
	for _, r := range rankings {
		if r == nil {
			continue
		}
		for _, f := range r.Features {
			if _, ok := features[f.Index]; !ok {
				stat := f
				features[f.Index] = &stat
				order = append(order, f.Index)
			}
			weights.Push(strconv.Itoa(f.Index), f.Weight)
		}
		for _, g := range r.Groups {
			groups.Push(g.Name, g.Mean)
			counts[g.Name] = g.Count
		}
	}
	merged := &Ranking{
		Features: make([]FeatureStat, 0, len(order)),
		Groups:   make([]GroupStat, 0, groups.Size()),
	}
	for _, i := range order {
		f := *features[i]
		s, _ := weights.Get(strconv.Itoa(i))
		f.Weight = s.Avg()
		merged.Features = append(merged.Features, f)
	}
	sort.SliceStable(merged.Features, func(a, b int) bool {
		return merged.Features[a].Weight > merged.Features[b].Weight
	})
	for _, name := range groups.Keys() {
		s, _ := groups.Get(name)
		merged.Groups = append(merged.Groups, GroupStat{
			Name:   name,
			Min:    s.Min(),
			Max:    s.Max(),
			Mean:   s.Avg(),
			StdDev: s.SampleStDev(),
			Count:  counts[name],
		})
	}
	sort.SliceStable(merged.Groups, func(a, b int) bool {
		return merged.Groups[a].Mean > merged.Groups[b].Mean
	})
	return merged
}
