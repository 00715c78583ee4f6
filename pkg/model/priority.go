package model

import "sort"

// Priority matrix categories.
const (
	CategoryQuickWins      = "Quick Wins"
	CategoryMajorProjects  = "Major Projects"
	CategoryFillIns        = "Fill-ins"
	CategoryThanklessTasks = "Thankless Tasks"
)

// Categories lists the matrix categories in priority order.
var Categories = []string{
	CategoryQuickWins,
	CategoryMajorProjects,
	CategoryFillIns,
	CategoryThanklessTasks,
}

// Priority is the derived placement of a solution on the impact/effort matrix.
type Priority struct {
	Category string `json:"category" yaml:"category"`
	Color    string `json:"color" yaml:"color"`
	Priority int    `json:"priority" yaml:"priority"`
}

// Classify places an (impact, effort) pair on the matrix. Rules are checked in
// order and the first match wins; scores of 5 or 6 on either axis only reach
// the final branch.
func Classify(impact, effort int) Priority {
	switch {
	case impact >= 7 && effort <= 4:
		return Priority{Category: CategoryQuickWins, Color: "#10B981", Priority: 1}
	case impact >= 7 && effort >= 7:
		return Priority{Category: CategoryMajorProjects, Color: "#F59E0B", Priority: 2}
	case impact <= 4 && effort <= 4:
		return Priority{Category: CategoryFillIns, Color: "#6B7280", Priority: 3}
	default:
		return Priority{Category: CategoryThanklessTasks, Color: "#EF4444", Priority: 4}
	}
}

// RankedSolution pairs a solution with its matrix placement.
type RankedSolution struct {
	Solution `yaml:",inline"`
	Priority Priority `json:"priority" yaml:"priority"`
}

// Rank classifies the rated solutions and orders them by priority. The sort is
// stable so ties keep their original order. Unrated solutions are skipped.
func Rank(solutions []Solution) []RankedSolution {
	ranked := make([]RankedSolution, 0, len(solutions))
	for _, s := range solutions {
		if !s.Rated() {
			continue
		}
		ranked = append(ranked, RankedSolution{Solution: s, Priority: Classify(s.Impact, s.Effort)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority.Priority < ranked[j].Priority.Priority
	})
	return ranked
}

// Tally counts rated solutions per category. Every category is present.
func Tally(solutions []Solution) map[string]int {
	tally := make(map[string]int, len(Categories))
	for _, c := range Categories {
		tally[c] = 0
	}
	for _, s := range solutions {
		if !s.Rated() {
			continue
		}
		tally[Classify(s.Impact, s.Effort).Category]++
	}
	return tally
}
