package reports

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/plannetic/advisor-hub/internal/storage"
)

// TimelineEvent is one plan milestone, anchored to the client's age when it
// occurs.
type TimelineEvent struct {
	Age    int    `json:"age"`
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
}

// BuildTimelineEvents collects the plan's milestones (retirement, state
// pension, mortgage payoff and user-supplied capital events) sorted
// ascending by the age at which they occur.
func BuildTimelineEvents(scenario *storage.Scenario, f *Formatter) []TimelineEvent {
	var events []TimelineEvent

	if scenario.RetirementAge > 0 {
		events = append(events, TimelineEvent{
			Age:   scenario.RetirementAge,
			Label: "Retirement",
		})
	}
	if scenario.StatePensionAge > 0 {
		events = append(events, TimelineEvent{
			Age:   scenario.StatePensionAge,
			Label: "State pension begins",
		})
	}

	// Mortgage payoff year derived from the balance/payment ratio.
	if scenario.MortgageBalance > 0 && scenario.MortgagePayment > 0 {
		yearsLeft := int(math.Ceil(scenario.MortgageBalance / scenario.MortgagePayment))
		events = append(events, TimelineEvent{
			Age:    scenario.CurrentAge + yearsLeft,
			Label:  "Mortgage paid off",
			Detail: fmt.Sprintf("Final balance of %s cleared", f.FormatCurrency(scenario.MortgageBalance)),
		})
	}

	for _, ev := range scenario.CapitalEvents {
		label := ev.Label
		if label == "" {
			label = "Capital event"
		}
		detail := f.FormatCurrency(ev.Amount) + " inflow"
		if ev.Amount < 0 {
			detail = f.FormatCurrency(-ev.Amount) + " outflow"
		}
		events = append(events, TimelineEvent{Age: ev.Age, Label: label, Detail: detail})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Age < events[j].Age
	})

	return events
}

// renderTimelineHTML renders the milestone list for template embedding.
func renderTimelineHTML(events []TimelineEvent) string {
	if len(events) == 0 {
		return "<p>No milestones defined for this plan.</p>"
	}

	var sb strings.Builder
	sb.WriteString(`<ul class="timeline">`)
	for _, ev := range events {
		sb.WriteString(fmt.Sprintf("<li><strong>Age %d</strong> — %s", ev.Age, escapeHTML(ev.Label)))
		if ev.Detail != "" {
			sb.WriteString(` <span class="muted">` + escapeHTML(ev.Detail) + `</span>`)
		}
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
	return sb.String()
}
