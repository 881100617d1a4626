package game

import (
	"sort"
	"strings"

	"github.com/Digital-Creators-Team/stakes-engine/errors"
)

// RankCategory selects the leaderboard metric
type RankCategory string

const (
	RankWealth RankCategory = "wealth"
	RankLevel  RankCategory = "level"
)

// RankEntry is one leaderboard row
type RankEntry struct {
	Position int    `json:"position"`
	Username string `json:"username"`
	Value    int64  `json:"value"`
}

// ParseRankCategory accepts wealth or level; empty means wealth
func ParseRankCategory(s string) (RankCategory, error) {
	switch RankCategory(strings.ToLower(strings.TrimSpace(s))) {
	case "", RankWealth:
		return RankWealth, nil
	case RankLevel:
		return RankLevel, nil
	}
	return "", errors.New(errors.ErrInvalidArgument, "Usage: -leaderboard [wealth|level]")
}

// Value returns the metric for acc
func (c RankCategory) Value(acc *Account) int64 {
	if c == RankLevel {
		return int64(acc.Level)
	}
	return acc.Wealth()
}

// Rank orders accounts by category, descending, and returns the top limit rows.
// Ties keep username order.
func Rank(accounts []*Account, category RankCategory, limit int) []RankEntry {
	sorted := append([]*Account(nil), accounts...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Username < sorted[j].Username
	})
	sort.SliceStable(sorted, func(i, j int) bool {
		return category.Value(sorted[i]) > category.Value(sorted[j])
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	entries := make([]RankEntry, 0, len(sorted))
	for i, acc := range sorted {
		entries = append(entries, RankEntry{
			Position: i + 1,
			Username: acc.Username,
			Value:    category.Value(acc),
		})
	}
	return entries
}
