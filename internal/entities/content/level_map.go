package content

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MaxLevel is the highest character level the progression tables cover
const MaxLevel = 20

// FeatureMap groups features by character level under "level-<n>" keys
type FeatureMap map[string][]Feature

// LevelKey returns the map key for a level. The second return is false for
// non-positive levels, which are excluded from level maps entirely rather
// than placed at level 0.
func LevelKey(level int) (string, bool) {
	if level < 1 {
		return "", false
	}
	return fmt.Sprintf("level-%d", level), true
}

// ParseLevelKey extracts the numeric level from a "level-<n>" key
func ParseLevelKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "level-")
	if !ok {
		return 0, false
	}
	level, err := strconv.Atoi(rest)
	if err != nil || level < 1 {
		return 0, false
	}
	return level, true
}

// Add appends a feature at the given level, dropping it silently when the
// level is non-positive
func (m FeatureMap) Add(level int, feature Feature) {
	key, ok := LevelKey(level)
	if !ok {
		return
	}
	m[key] = append(m[key], feature)
}

// Levels returns the levels present in the map in ascending order
func (m FeatureMap) Levels() []int {
	levels := make([]int, 0, len(m))
	for key := range m {
		if level, ok := ParseLevelKey(key); ok {
			levels = append(levels, level)
		}
	}
	sort.Ints(levels)
	return levels
}
