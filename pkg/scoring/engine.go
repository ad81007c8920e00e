package scoring

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/priomage/priomage/pkg/item"
)

// Formula constants. The score lives in [0, 200]; lower is more urgent.
const (
	maxScore       = 200.0
	effortSlope    = -0.6  // steepness of the effort logistic
	effortScale    = 0.05  // shifts the effort midpoint by goal-impact product
	effortOffset   = 5.0   // base effort midpoint, days
	dueSlope       = -0.2  // steepness of the due-date logistic
	dueMidpointMul = 1.5   // due-date midpoint = 1.5 x median working time
)

// Calculator computes priority scores for work items using the
// production formula. Deterministic and free of I/O. Now is injectable
// so due-date math is testable; it defaults to time.Now.
type Calculator struct {
	cfg Config
	Now func() time.Time
}

// NewCalculator returns a calculator with the production tables.
func NewCalculator() *Calculator {
	return NewCalculatorWith(Defaults())
}

// NewCalculatorWith returns a calculator using the given config.
func NewCalculatorWith(cfg Config) *Calculator {
	return &Calculator{cfg: cfg, Now: time.Now}
}

// Score computes the priority score for an item, clamped to [0, 200]
// and rounded to 2 decimal places (the remote number field accepts at
// most 8 significant digits).
func (c *Calculator) Score(w *item.WorkItem) float64 {
	return c.Explain(w).TotalScore
}

// Level maps a score to its discrete urgency level.
func (c *Calculator) Level(score float64) Level {
	return LevelFromScore(score)
}

// Explain computes the priority score along with every intermediate
// quantity of the formula.
func (c *Calculator) Explain(w *item.WorkItem) *Explanation {
	// Critical severity short-circuits everything: minimum score =
	// maximum priority.
	if c.isCritical(w) {
		return &Explanation{
			TotalScore:       0,
			Level:            LevelCritical,
			CriticalOverride: true,
		}
	}

	expl := &Explanation{
		BaseGoalWeight:   c.GoalWeight(w.Labels),
		StatusMultiplier: c.statusMultiplier(w),
		Impact:           c.impact(w),
		EffortDays:       c.effortDays(w),
	}
	expl.GoalWeight = expl.BaseGoalWeight * expl.StatusMultiplier

	// S = 200 - P - P / (1 + e^(-0.6 * (effort - (0.05*P + 5))))
	p := expl.GoalWeight * expl.Impact
	expl.GoalImpactProduct = p
	expl.EffortThreshold = effortScale*p + effortOffset

	sDenom := 1 + math.Exp(effortSlope*(expl.EffortDays-expl.EffortThreshold))
	// On overflow the denominator is +Inf and the fraction term is zero,
	// which is exactly the limiting case we want.
	s := maxScore - p - p/sDenom
	if !math.IsInf(sDenom, 1) {
		expl.EffortDenominator = &sDenom
	}
	expl.BaseScore = s

	// final = S - S / (1 + e^(-0.2 * (daysTillDue - 1.5*medianWorkingTime)))
	final := s
	if due, ok := c.dueDate(w); ok {
		days := due.Sub(c.Now().UTC()).Hours() / 24
		mwt := c.cfg.MedianWorkingTime

		dDenom := 1 + math.Exp(dueSlope*(days-dueMidpointMul*mwt))
		final = s - s/dDenom
		if !math.IsInf(dDenom, 1) {
			expl.DueDenominator = &dDenom
		}
		expl.DaysTillDue = &days
		expl.MedianWorkingTime = &mwt
	}
	expl.FinalBeforeClamp = final

	expl.TotalScore = round2(math.Max(0, math.Min(maxScore, final)))
	expl.Level = LevelFromScore(expl.TotalScore)
	return expl
}

// GoalWeight derives the strategic goal weight from labels. Label names
// and goal keys are normalized (lower-cased, spaces/hyphens/underscores
// stripped); every goal key found as a substring raises the weight to
// at least its configured value.
func (c *Calculator) GoalWeight(labels []item.Label) float64 {
	weight := c.cfg.DefaultGoalWeight
	for _, l := range labels {
		name := normalizeGoal(l.Name)
		for _, g := range c.cfg.GoalWeights {
			if strings.Contains(name, normalizeGoal(g.Key)) {
				weight = math.Max(weight, g.Weight)
			}
		}
	}
	return weight
}

// isCritical reports whether the item carries a critical severity
// marker: a label name containing one of the critical markers, or a
// "critical" field whose value equals "critical".
func (c *Calculator) isCritical(w *item.WorkItem) bool {
	for _, l := range w.Labels {
		name := strings.ToLower(l.Name)
		for _, marker := range c.cfg.CriticalMarkers {
			if strings.Contains(name, marker) {
				return true
			}
		}
	}

	if f, ok := w.Field("critical"); ok {
		v := strings.ToLower(strings.TrimSpace(f.String()))
		if v == "critical" {
			return true
		}
	}
	return false
}

// statusMultiplier resolves the workflow-state multiplier from the
// Status field: exact table match first, then the first table entry
// whose key is a substring of the value, else 1.0.
func (c *Calculator) statusMultiplier(w *item.WorkItem) float64 {
	f, ok := w.Field("status")
	if !ok {
		return 1.0
	}
	value := strings.TrimSpace(strings.ToLower(f.String()))
	if value == "" {
		return 1.0
	}

	for _, e := range c.cfg.StatusMultipliers {
		if e.Key == value {
			return e.Value
		}
	}
	for _, e := range c.cfg.StatusMultipliers {
		if strings.Contains(value, e.Key) {
			return e.Value
		}
	}
	return 1.0
}

// impact reads the numeric impact field, falling back to parsing the
// text form, then to the default.
func (c *Calculator) impact(w *item.WorkItem) float64 {
	f, ok := w.Field("impact")
	if !ok {
		return c.cfg.DefaultImpact
	}
	if f.Kind == item.KindNumber {
		if f.Number == nil {
			return c.cfg.DefaultImpact
		}
		return *f.Number
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(f.Text), 64); err == nil {
		return v
	}
	return c.cfg.DefaultImpact
}

// effortDays maps the effort size field to implementation days: exact
// table match first, then substring fallback, else the default.
func (c *Calculator) effortDays(w *item.WorkItem) float64 {
	f, ok := w.Field("effort")
	if !ok {
		return c.cfg.DefaultEffortDays
	}
	value := strings.TrimSpace(strings.ToLower(f.String()))
	if value == "" {
		return c.cfg.DefaultEffortDays
	}

	for _, e := range c.cfg.EffortDays {
		if e.Key == value {
			return e.Value
		}
	}
	for _, e := range c.cfg.EffortDays {
		if strings.Contains(value, e.Key) {
			return e.Value
		}
	}
	return c.cfg.DefaultEffortDays
}

// dueDate parses the optional due field. Unparseable values are treated
// as "no due date", never as an error.
func (c *Calculator) dueDate(w *item.WorkItem) (time.Time, bool) {
	f, ok := w.Field("due")
	if !ok {
		return time.Time{}, false
	}
	return ParseDueDate(f.String())
}

// ParseDueDate parses an ISO-8601 timestamp or bare date. A trailing Z
// is the UTC offset; values without a zone are assumed UTC.
func ParseDueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func normalizeGoal(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
