package surface

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/priomage/priomage/pkg/item"
	"github.com/priomage/priomage/pkg/scoring"
)

// TerminalRenderer renders results as colored terminal output.
type TerminalRenderer struct {
	ShowFields bool // include non-key custom fields in listings

	// Now is used for due-date countdown annotations; defaults to time.Now.
	Now func() time.Time
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// keyFields are shown first in listings, in this order.
var keyFields = []string{"Status", "Priority", "due", "impact", "effort"}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func levelColor(level scoring.Level) string {
	if noColor() {
		return ""
	}
	switch level {
	case scoring.LevelCritical, scoring.LevelHigh:
		return colorRed
	case scoring.LevelMedium:
		return colorYellow
	case scoring.LevelLow:
		return colorGreen
	default:
		return colorDim
	}
}

func (r *TerminalRenderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// RenderList writes one block per item: header, repository, labels,
// priority, and key field values.
func (r *TerminalRenderer) RenderList(w io.Writer, reports []ItemReport) error {
	for _, rep := range reports {
		it := rep.Item

		kind := "Issue"
		if !it.IsIssue() {
			kind = "PR"
		}
		fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf("%s #%d: %s", kind, it.Number, it.Title)))
		fmt.Fprintf(w, "  Repository: %s\n", it.Repository)

		names := make([]string, 0, len(it.Labels))
		for _, l := range it.Labels {
			names = append(names, l.Name)
		}
		labels := "None"
		if len(names) > 0 {
			labels = strings.Join(names, ", ")
		}
		fmt.Fprintf(w, "  Labels: %s\n", labels)

		if rep.Scored {
			fmt.Fprintf(w, "  Priority: %s\n",
				colored(fmt.Sprintf("%.2f (%s)", rep.Score, rep.Level), levelColor(rep.Level)))
			fmt.Fprintf(w, "  Goal weight: %.2f\n", rep.GoalWeight)
		} else {
			fmt.Fprintf(w, "  Priority: %s\n", dim("N/A"))
		}

		r.renderFields(w, &it)
		fmt.Fprintln(w)
	}
	return nil
}

func (r *TerminalRenderer) renderFields(w io.Writer, it *item.WorkItem) {
	if len(it.Fields) == 0 {
		return
	}

	fmt.Fprintln(w, "  Key fields:")
	shown := make(map[string]bool)
	for _, name := range keyFields {
		f, ok := it.Field(name)
		if !ok {
			continue
		}
		shown[strings.ToLower(name)] = true

		value := f.String()
		if strings.EqualFold(name, "due") && value != "" {
			value += " " + dim("("+dueAnnotation(value, r.now())+")")
		}
		fmt.Fprintf(w, "    %s: %s\n", name, value)
	}

	if !r.ShowFields {
		return
	}
	var others []string
	for name := range it.Fields {
		if !shown[strings.ToLower(name)] {
			others = append(others, name)
		}
	}
	if len(others) == 0 {
		return
	}
	sort.Strings(others)
	fmt.Fprintln(w, "  Other fields:")
	for _, name := range others {
		fmt.Fprintf(w, "    %s: %s\n", name, it.Fields[name].String())
	}
}

// dueAnnotation describes how far away a due date is. Unparseable
// values get no annotation.
func dueAnnotation(value string, now time.Time) string {
	due, ok := scoring.ParseDueDate(value)
	if !ok {
		return ""
	}
	days := int(math.Floor(due.Sub(now).Hours() / 24))
	switch {
	case days < 0:
		return fmt.Sprintf("OVERDUE by %d days", -days)
	case days == 0:
		return "DUE TODAY"
	default:
		return fmt.Sprintf("due in %d days", days)
	}
}

// RenderExplanation writes the full scoring breakdown for one item.
func (r *TerminalRenderer) RenderExplanation(w io.Writer, rep ExplainReport) error {
	it := rep.Item
	expl := rep.Explanation

	fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf("Priority analysis for issue #%d", it.Number)))
	fmt.Fprintf(w, "Title: %s\n", it.Title)
	fmt.Fprintf(w, "Repository: %s\n", it.Repository)
	fmt.Fprintf(w, "Score: %s\n",
		colored(fmt.Sprintf("%.2f (%s)", expl.TotalScore, expl.Level), levelColor(expl.Level)))

	if expl.CriticalOverride {
		fmt.Fprintln(w)
		fmt.Fprintln(w, colored("Critical severity override applied: minimum score = maximum priority.", colorRed))
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, bold("Formula breakdown:"))
	fmt.Fprintf(w, "  Goal weight: %.2f (base %.2f x status %.2f)\n",
		expl.GoalWeight, expl.BaseGoalWeight, expl.StatusMultiplier)
	fmt.Fprintf(w, "  Impact: %.2f\n", expl.Impact)
	fmt.Fprintf(w, "  Effort (days): %.2f\n", expl.EffortDays)
	fmt.Fprintf(w, "  Goal weight x impact: %.2f\n", expl.GoalImpactProduct)

	fmt.Fprintln(w)
	fmt.Fprintln(w, bold("Effort adjustment:"))
	fmt.Fprintf(w, "  Effort threshold: %.2f\n", expl.EffortThreshold)
	if expl.EffortDenominator != nil {
		fmt.Fprintf(w, "  Logistic denominator: %.4f\n", *expl.EffortDenominator)
	} else {
		fmt.Fprintf(w, "  Logistic denominator: %s\n", dim("overflow (term dropped)"))
	}
	fmt.Fprintf(w, "  Base score (S): %.2f\n", expl.BaseScore)

	fmt.Fprintln(w)
	if expl.DaysTillDue != nil {
		fmt.Fprintln(w, bold("Due date urgency:"))
		fmt.Fprintf(w, "  Days till due: %.2f\n", *expl.DaysTillDue)
		fmt.Fprintf(w, "  Median working time: %.2f\n", *expl.MedianWorkingTime)
		if expl.DueDenominator != nil {
			fmt.Fprintf(w, "  Logistic denominator: %.4f\n", *expl.DueDenominator)
		} else {
			fmt.Fprintf(w, "  Logistic denominator: %s\n", dim("overflow (term dropped)"))
		}
	} else {
		fmt.Fprintf(w, "%s %s\n", bold("Due date urgency:"), dim("not applied (no due date)"))
	}

	if len(it.Fields) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold("Custom fields:"))
		names := make([]string, 0, len(it.Fields))
		for name := range it.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %s\n", name, it.Fields[name].String())
		}
	}

	return nil
}

// RenderProject writes the project's title, URL, and field schema.
func (r *TerminalRenderer) RenderProject(w io.Writer, info *item.ProjectInfo, url string) error {
	fmt.Fprintf(w, "%s\n", bold("Project: "+info.Title))
	if url != "" {
		fmt.Fprintf(w, "URL: %s\n", url)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Fields:")
	for _, f := range info.Fields {
		fmt.Fprintf(w, "  %s (%s)\n", bold(f.Name), f.DataType)
		for _, opt := range f.Options {
			fmt.Fprintf(w, "    - %s %s\n", opt.Name, dim("("+opt.Color+")"))
		}
	}
	return nil
}
