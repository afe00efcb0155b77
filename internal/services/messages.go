package services

import (
	"fmt"
	"html"
	"strings"

	"eventhub/internal/models"
)

func inactivityNotification(p models.Partnership, st models.InactivityStatus, locale string) Notification {
	name := p.NameText().Resolve(locale)
	since := "no recorded activity"
	if st.DaysSinceLastActivity != nil {
		since = fmt.Sprintf("%d days since last activity", *st.DaysSinceLastActivity)
	}
	text := fmt.Sprintf("Partnership %q is inactive: %s (threshold %d months).", name, since, st.InactivityThresholdMonths)
	return Notification{
		Subject: "Inactive partnership: " + name,
		Text:    text,
		HTML:    "<p>" + html.EscapeString(text) + "</p>",
	}
}

func digestNotification(res *models.PendingTasksResult, g models.PendingDepartmentGroup, locale string) Notification {
	dept := g.Department.NameText().Resolve(locale)
	var txt, htm strings.Builder
	count := 0

	fmt.Fprintf(&txt, "Pending tasks for %s, %s", dept, res.RangeStart)
	if !res.RangeEnd.Equal(res.RangeStart) {
		fmt.Fprintf(&txt, " to %s", res.RangeEnd)
	}
	txt.WriteString("\n")
	fmt.Fprintf(&htm, "<h3>%s</h3>", html.EscapeString(strings.TrimSpace(txt.String())))

	for _, eg := range g.Events {
		heading := "Not linked to an event"
		if eg.Event != nil {
			heading = eg.Event.NameText().Resolve(locale)
		}
		fmt.Fprintf(&txt, "\n%s\n", heading)
		fmt.Fprintf(&htm, "<h4>%s</h4><ul>", html.EscapeString(heading))
		for _, t := range eg.Tasks {
			title := t.TitleText().Resolve(locale)
			fmt.Fprintf(&txt, "- [%s] %s (%s)\n", t.EffectiveDate, title, t.Status)
			fmt.Fprintf(&htm, "<li>%s %s <em>%s</em></li>", t.EffectiveDate, html.EscapeString(title), t.Status)
			count++
		}
		htm.WriteString("</ul>")
	}

	return Notification{
		Subject: fmt.Sprintf("%s: %d pending task(s)", dept, count),
		Text:    txt.String(),
		HTML:    htm.String(),
		Emails:  []string{g.Department.Email},
		Phones:  []string{g.Department.Phone},
	}
}
