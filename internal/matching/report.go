package matching

import (
	"encoding/json"
	"os"
	"sort"
)

// SortByScore returns a copy of results ordered by score, best first. Equal
// scores keep their order.
func SortByScore(results []*MatchResult) []*MatchResult {
	sorted := append([]*MatchResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MatchScore > sorted[j].MatchScore
	})
	return sorted
}

// DumpToTmpFile writes results as indented JSON to a new temporary file and
// returns its path.
func DumpToTmpFile(results []*MatchResult) (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return "", err
	}
	return file.Name(), nil
}
