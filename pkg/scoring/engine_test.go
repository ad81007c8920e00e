package scoring_test

import (
	"math"
	"testing"
	"time"

	"github.com/priomage/priomage/pkg/item"
	"github.com/priomage/priomage/pkg/scoring"
)

var testNow = time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)

func newCalc() *scoring.Calculator {
	c := scoring.NewCalculator()
	c.Now = func() time.Time { return testNow }
	return c
}

func f64(v float64) *float64 { return &v }

// testItem builds a work item with the given label names and fields.
func testItem(labels []string, fields map[string]item.FieldValue) *item.WorkItem {
	w := &item.WorkItem{
		ContentType: item.ContentIssue,
		Fields:      fields,
	}
	for i, name := range labels {
		w.Labels = append(w.Labels, item.Label{ID: string(rune('a' + i)), Name: name})
	}
	return w
}

func baseFields(impact float64, effort, status string) map[string]item.FieldValue {
	f := map[string]item.FieldValue{
		"impact": item.NumberValue("f-impact", f64(impact)),
		"effort": item.SelectValue("f-effort", effort),
	}
	if status != "" {
		f["Status"] = item.SelectValue("f-status", status)
	}
	return f
}

func TestBaselineScore(t *testing.T) {
	c := newCalc()
	w := testItem([]string{"general"}, baseFields(5.0, "medium", "Ready"))

	score := c.Score(w)
	if score < 0 || score > 200 {
		t.Fatalf("score %v out of [0,200]", score)
	}
	if math.Abs(score-190.81) > 0.1 {
		t.Errorf("baseline score = %v, want ~190.81", score)
	}
}

func TestCriticalOverride(t *testing.T) {
	c := newCalc()

	// Critical label wins regardless of extreme effort and minimal impact.
	withLabel := testItem([]string{"critical"}, baseFields(1.0, "xl", ""))
	if got := c.Score(withLabel); got != 0.0 {
		t.Errorf("critical label score = %v, want 0.0", got)
	}
	if lvl := scoring.LevelFromScore(c.Score(withLabel)); lvl != scoring.LevelCritical {
		t.Errorf("critical label level = %v, want Critical", lvl)
	}

	// Substring match: any label containing a marker.
	substr := testItem([]string{"area/security-audit"}, baseFields(5.0, "medium", ""))
	if got := c.Score(substr); got != 0.0 {
		t.Errorf("security substring score = %v, want 0.0", got)
	}

	// P0/P1/P2 markers match case-insensitively.
	p0 := testItem([]string{"P0"}, baseFields(5.0, "medium", ""))
	if got := c.Score(p0); got != 0.0 {
		t.Errorf("P0 label score = %v, want 0.0", got)
	}

	// Critical custom field with the literal value "critical".
	fields := baseFields(1.0, "xl", "")
	fields["Critical"] = item.SelectValue("f-crit", " Critical ")
	withField := testItem(nil, fields)
	if got := c.Score(withField); got != 0.0 {
		t.Errorf("critical field score = %v, want 0.0", got)
	}

	// A non-critical value does not trigger the override.
	fields2 := baseFields(5.0, "medium", "")
	fields2["Critical"] = item.SelectValue("f-crit", "no")
	if got := c.Score(testItem(nil, fields2)); got == 0.0 {
		t.Error("non-critical field value triggered the override")
	}
}

func TestStatusMultipliers(t *testing.T) {
	c := newCalc()

	blocked := c.Score(testItem([]string{"general"}, baseFields(10, "medium", "blocked")))
	ready := c.Score(testItem([]string{"general"}, baseFields(10, "medium", "ready")))
	if blocked >= ready {
		t.Errorf("blocked (%v) should score strictly lower than ready (%v)", blocked, ready)
	}

	done := c.Score(testItem([]string{"general"}, baseFields(10, "medium", "done")))
	if done != 200.0 {
		t.Errorf("done score = %v, want exactly 200.0", done)
	}

	todo := c.Score(testItem([]string{"general"}, baseFields(10, "medium", "todo")))
	next := c.Score(testItem([]string{"general"}, baseFields(10, "medium", "next")))
	if todo >= next {
		t.Errorf("todo (%v) should score strictly lower than next (%v)", todo, next)
	}

	// Substring fallback: "In Progress 🚧"-style decorated statuses.
	decorated := c.Score(testItem([]string{"general"}, baseFields(10, "medium", "currently in progress")))
	plain := c.Score(testItem([]string{"general"}, baseFields(10, "medium", "in progress")))
	if decorated != plain {
		t.Errorf("substring status = %v, want same as exact match %v", decorated, plain)
	}

	// Unknown status falls back to the 1.0 multiplier.
	unknown := c.Score(testItem([]string{"general"}, baseFields(10, "medium", "triage")))
	none := c.Score(testItem([]string{"general"}, baseFields(10, "medium", "")))
	if unknown != none {
		t.Errorf("unknown status = %v, want same as no status %v", unknown, none)
	}
}

func TestEffortSizes(t *testing.T) {
	c := newCalc()

	xl := c.Score(testItem([]string{"general"}, baseFields(10, "xl", "ready")))
	xs := c.Score(testItem([]string{"general"}, baseFields(10, "xs", "ready")))
	if xl >= xs {
		t.Errorf("xl (%v) should score strictly lower than xs (%v)", xl, xs)
	}

	// Aliases map to the same day count.
	m := c.Score(testItem([]string{"general"}, baseFields(10, "m", "ready")))
	medium := c.Score(testItem([]string{"general"}, baseFields(10, "medium", "ready")))
	if m != medium {
		t.Errorf("effort m = %v, medium = %v, want equal", m, medium)
	}

	// Unknown size falls back to the default 8 days.
	unknown := c.Score(testItem([]string{"general"}, baseFields(10, "gigantic", "ready")))
	if unknown != medium {
		t.Errorf("unknown effort = %v, want default-medium %v", unknown, medium)
	}
}

func TestGoalWeightFromLabels(t *testing.T) {
	c := newCalc()

	acquisition := c.Score(testItem([]string{"customer-acquisition"}, baseFields(10, "medium", "ready")))
	techDebt := c.Score(testItem([]string{"technical-debt"}, baseFields(10, "medium", "ready")))
	if acquisition >= techDebt {
		t.Errorf("customer-acquisition (%v) should score strictly lower than technical-debt (%v)",
			acquisition, techDebt)
	}

	// Normalization: separators and case are ignored on both sides.
	for _, name := range []string{"Customer Acquisition", "customer_acquisition", "customeracquisition"} {
		if got := c.GoalWeight([]item.Label{{Name: name}}); got != 1.0 {
			t.Errorf("GoalWeight(%q) = %v, want 1.0", name, got)
		}
	}

	// Multiple goal labels: the highest weight wins.
	got := c.GoalWeight([]item.Label{{Name: "infrastructure"}, {Name: "revenue"}})
	if got != 1.0 {
		t.Errorf("GoalWeight(infrastructure+revenue) = %v, want 1.0", got)
	}

	// No goal label: the 0.5 default.
	if got := c.GoalWeight([]item.Label{{Name: "bug"}}); got != 0.5 {
		t.Errorf("GoalWeight(bug) = %v, want 0.5", got)
	}
	if got := c.GoalWeight(nil); got != 0.5 {
		t.Errorf("GoalWeight(nil) = %v, want 0.5", got)
	}
}

func TestLevelBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  scoring.Level
	}{
		{9.99, scoring.LevelCritical},
		{10.0, scoring.LevelHigh}, // not < 10
		{20.0, scoring.LevelHigh},
		{20.01, scoring.LevelMedium},
		{30.0, scoring.LevelMedium},
		{50.0, scoring.LevelMedium},
		{75.0, scoring.LevelLow},
		{100.0, scoring.LevelLow},
		{130.0, scoring.LevelBacklog},
		{160.0, scoring.LevelBacklog},
		{160.01, scoring.LevelIcebox},
		{200.0, scoring.LevelIcebox},
	}
	for _, tt := range tests {
		if got := scoring.LevelFromScore(tt.score); got != tt.want {
			t.Errorf("LevelFromScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestDueDateUrgency(t *testing.T) {
	c := newCalc()

	withDue := func(due time.Time) *item.WorkItem {
		f := baseFields(10, "medium", "ready")
		f["due"] = item.DateValue("f-due", due.Format(time.RFC3339))
		return testItem([]string{"general"}, f)
	}

	urgent := c.Score(withDue(testNow.Add(24 * time.Hour)))
	future := c.Score(withDue(testNow.Add(180 * 24 * time.Hour)))
	noDue := c.Score(testItem([]string{"general"}, baseFields(10, "medium", "ready")))

	// Past the logistic midpoint (1.5 x 120 days) the urgency term
	// subtracts most of S, so far-future deadlines score lower.
	if future >= urgent {
		t.Errorf("180-day due (%v) should score strictly lower than 1-day due (%v)", future, urgent)
	}
	// A near deadline leaves the score essentially at S.
	if math.Abs(urgent-noDue) > 0.1 {
		t.Errorf("1-day due = %v, want ~no-due score %v", urgent, noDue)
	}
}

func TestQuarterlyDueDate(t *testing.T) {
	c := newCalc()

	f := baseFields(8.0, "medium", "ready")
	f["due"] = item.DateValue("f-due", testNow.Add(90*24*time.Hour).Format(time.RFC3339))
	w := testItem([]string{"general"}, f)

	score := c.Score(w)
	if score < 180.0 || score > 190.0 {
		t.Errorf("quarterly score = %v, want within [180,190]", score)
	}

	expl := c.Explain(w)
	if expl.MedianWorkingTime == nil || *expl.MedianWorkingTime != 120.0 {
		t.Errorf("median working time = %v, want 120", expl.MedianWorkingTime)
	}
	if expl.DaysTillDue == nil || math.Abs(*expl.DaysTillDue-90) > 0.01 {
		t.Errorf("days till due = %v, want ~90", expl.DaysTillDue)
	}
}

func TestUnparseableDueDateIgnored(t *testing.T) {
	c := newCalc()

	f := baseFields(5.0, "medium", "ready")
	f["due"] = item.DateValue("f-due", "not-a-date")
	invalid := c.Score(testItem([]string{"general"}, f))
	clean := c.Score(testItem([]string{"general"}, baseFields(5.0, "medium", "ready")))

	if invalid != clean {
		t.Errorf("invalid due date score = %v, want no-due score %v", invalid, clean)
	}
}

func TestDateOnlyDueDateParses(t *testing.T) {
	// GitHub date fields arrive as bare YYYY-MM-DD.
	got, ok := scoring.ParseDueDate("2026-09-15")
	if !ok {
		t.Fatal("ParseDueDate(2026-09-15) failed")
	}
	want := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDueDate = %v, want %v", got, want)
	}

	// Trailing Z is the UTC offset.
	if _, ok := scoring.ParseDueDate("2026-09-15T10:30:00Z"); !ok {
		t.Error("ParseDueDate with trailing Z failed")
	}
	// Naive timestamps are assumed UTC.
	if _, ok := scoring.ParseDueDate("2026-09-15T10:30:00"); !ok {
		t.Error("ParseDueDate without zone failed")
	}
}

func TestScoreIsIdempotent(t *testing.T) {
	c := newCalc()
	f := baseFields(7.0, "large", "in progress")
	f["due"] = item.DateValue("f-due", testNow.Add(45*24*time.Hour).Format(time.RFC3339))
	w := testItem([]string{"performance"}, f)

	first := c.Score(w)
	second := c.Score(w)
	if first != second {
		t.Errorf("Score not idempotent: %v then %v", first, second)
	}
}

func TestEmptyItem(t *testing.T) {
	c := newCalc()

	score := c.Score(&item.WorkItem{})
	if score < 0 || score > 200 {
		t.Fatalf("empty item score %v out of [0,200]", score)
	}

	expl := c.Explain(&item.WorkItem{})
	if expl.BaseGoalWeight != 0.5 {
		t.Errorf("base goal weight = %v, want default 0.5", expl.BaseGoalWeight)
	}
	if expl.Impact != 5.0 {
		t.Errorf("impact = %v, want default 5.0", expl.Impact)
	}
	if expl.EffortDays != 8.0 {
		t.Errorf("effort days = %v, want default 8.0", expl.EffortDays)
	}
	if expl.DaysTillDue != nil {
		t.Error("days till due set for item without due date")
	}
}

func TestExplainBreakdown(t *testing.T) {
	c := newCalc()

	f := map[string]item.FieldValue{
		"impact": item.NumberValue("f-impact", f64(8.0)),
		"effort": item.SelectValue("f-effort", "small"),
		"Status": item.SelectValue("f-status", "todo"),
		"due":    item.DateValue("f-due", testNow.Add(30*24*time.Hour).Format(time.RFC3339)),
	}
	w := testItem([]string{"customer-acquisition"}, f)

	expl := c.Explain(w)

	if expl.CriticalOverride {
		t.Fatal("unexpected critical override")
	}
	if expl.BaseGoalWeight != 1.0 {
		t.Errorf("base goal weight = %v, want 1.0", expl.BaseGoalWeight)
	}
	if expl.StatusMultiplier != 1.2 {
		t.Errorf("status multiplier = %v, want 1.2", expl.StatusMultiplier)
	}
	if math.Abs(expl.GoalWeight-1.2) > 1e-9 {
		t.Errorf("goal weight = %v, want 1.2", expl.GoalWeight)
	}
	if expl.Impact != 8.0 {
		t.Errorf("impact = %v, want 8.0", expl.Impact)
	}
	if expl.EffortDays != 3.0 {
		t.Errorf("effort days = %v, want 3.0", expl.EffortDays)
	}

	p := expl.GoalWeight * expl.Impact
	if math.Abs(expl.GoalImpactProduct-p) > 1e-9 {
		t.Errorf("goal-impact product = %v, want %v", expl.GoalImpactProduct, p)
	}
	wantThreshold := 0.05*p + 5
	if math.Abs(expl.EffortThreshold-wantThreshold) > 1e-9 {
		t.Errorf("effort threshold = %v, want %v", expl.EffortThreshold, wantThreshold)
	}

	// The reported numbers must reproduce the computation.
	if expl.EffortDenominator == nil {
		t.Fatal("effort denominator missing")
	}
	wantS := 200 - p - p / *expl.EffortDenominator
	if math.Abs(expl.BaseScore-wantS) > 1e-9 {
		t.Errorf("base score = %v, want %v", expl.BaseScore, wantS)
	}
	if expl.DueDenominator == nil || expl.DaysTillDue == nil {
		t.Fatal("due-date breakdown missing")
	}
	wantFinal := expl.BaseScore - expl.BaseScore / *expl.DueDenominator
	if math.Abs(expl.FinalBeforeClamp-wantFinal) > 1e-9 {
		t.Errorf("final before clamp = %v, want %v", expl.FinalBeforeClamp, wantFinal)
	}
	if expl.Level != scoring.LevelFromScore(expl.TotalScore) {
		t.Errorf("level %v does not match score %v", expl.Level, expl.TotalScore)
	}
}

func TestExplainCritical(t *testing.T) {
	c := newCalc()
	w := testItem([]string{"hotfix"}, baseFields(5.0, "medium", ""))

	expl := c.Explain(w)
	if !expl.CriticalOverride {
		t.Fatal("expected critical override")
	}
	if expl.TotalScore != 0.0 {
		t.Errorf("total score = %v, want 0.0", expl.TotalScore)
	}
	if expl.Level != scoring.LevelCritical {
		t.Errorf("level = %v, want Critical", expl.Level)
	}
}

func TestTextImpactCoercion(t *testing.T) {
	c := newCalc()

	f := map[string]item.FieldValue{
		"impact": item.TextValue("f-impact", "9.5"),
		"effort": item.SelectValue("f-effort", "medium"),
	}
	expl := c.Explain(testItem([]string{"general"}, f))
	if expl.Impact != 9.5 {
		t.Errorf("text impact = %v, want 9.5", expl.Impact)
	}

	f["impact"] = item.TextValue("f-impact", "huge")
	expl = c.Explain(testItem([]string{"general"}, f))
	if expl.Impact != 5.0 {
		t.Errorf("unparseable impact = %v, want default 5.0", expl.Impact)
	}
}

func TestGoalWeightOverrides(t *testing.T) {
	cfg := scoring.Defaults()
	cfg.OverrideGoalWeights(map[string]float64{
		"technical debt": 1.0,
		"documentation":  0.4,
	})
	c := scoring.NewCalculatorWith(cfg)
	c.Now = func() time.Time { return testNow }

	if got := c.GoalWeight([]item.Label{{Name: "technical-debt"}}); got != 1.0 {
		t.Errorf("overridden technical debt weight = %v, want 1.0", got)
	}
	// New keys participate in matching; 0.4 is below the 0.5 floor, so
	// the default still wins under max semantics.
	if got := c.GoalWeight([]item.Label{{Name: "documentation"}}); got != 0.5 {
		t.Errorf("documentation weight = %v, want 0.5 (default floor)", got)
	}
}
