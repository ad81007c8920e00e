package scoring

// goalEntry maps a strategic goal to its weight. Keys are matched as
// substrings of normalized label names; the highest matching weight wins.
type goalEntry struct {
	Key    string
	Weight float64
}

// tableEntry is an ordered lookup row: exact match first, then the first
// entry whose key is a substring of the value. Order matters for the
// substring fallback, so these are slices rather than maps.
type tableEntry struct {
	Key   string
	Value float64
}

// Config holds every tunable table and constant of the priority formula.
type Config struct {
	GoalWeights       []goalEntry
	StatusMultipliers []tableEntry
	EffortDays        []tableEntry
	CriticalMarkers   []string

	DefaultGoalWeight float64 // applied when no goal label matches
	DefaultImpact     float64 // applied when the impact field is absent
	DefaultEffortDays float64 // applied when the effort field is absent or unknown
	MedianWorkingTime float64 // days; midpoint scale of the due-date logistic
}

// Defaults returns the production scoring tables and constants.
func Defaults() Config {
	return Config{
		GoalWeights: []goalEntry{
			// Customer-focused goals
			{"customer acquisition", 1.0},
			{"customer retention", 0.9},
			{"user experience", 0.8},
			{"product market fit", 1.0},

			// Technical goals
			{"technical debt", 0.7},
			{"performance", 0.8},
			{"security", 1.0},
			{"scalability", 0.7},
			{"infrastructure", 0.6},

			// Business goals
			{"revenue", 1.0},
			{"cost reduction", 0.8},
			{"compliance", 0.9},
			{"operations", 0.6},

			// Default
			{"general", 1.0},
		},
		StatusMultipliers: []tableEntry{
			{"blocked", 1.5},     // highest priority to unblock work
			{"in progress", 1.3}, // finish started work
			{"todo", 1.2},
			{"next", 1.1},
			{"ready", 1.0}, // baseline
			{"done", 0.0},
			{"backlog", 0.8},
			{"cancelled", 0.0},
			{"on hold", 0.6},
		},
		// 75th percentile of historical implementation time, in days.
		EffortDays: []tableEntry{
			{"xs", 1.5},
			{"small", 3.0},
			{"s", 3.0},
			{"medium", 8.0},
			{"m", 8.0},
			{"large", 20.0},
			{"l", 20.0},
			{"xl", 40.0},
		},
		CriticalMarkers: []string{
			"critical", "severity:critical", "security", "hotfix",
			"urgent", "p0", "p1", "p2",
		},
		DefaultGoalWeight: 0.5,
		DefaultImpact:     5.0,
		DefaultEffortDays: 8.0,
		MedianWorkingTime: 120,
	}
}

// OverrideGoalWeights upserts goal weights, keeping table order for
// existing keys and appending new ones.
func (c *Config) OverrideGoalWeights(weights map[string]float64) {
	for key, w := range weights {
		found := false
		for i := range c.GoalWeights {
			if c.GoalWeights[i].Key == key {
				c.GoalWeights[i].Weight = w
				found = true
				break
			}
		}
		if !found {
			c.GoalWeights = append(c.GoalWeights, goalEntry{Key: key, Weight: w})
		}
	}
}
