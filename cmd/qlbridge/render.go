package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/qlbridge/qlbridge/internal/domain/model"
)

// logTailLimit caps rendered log output; panels accumulate long logs and
// the tail is what the operator wants.
const logTailLimit = 1000

// renderResult renders a router result as plain text.
func renderResult(result model.Result) string {
	switch res := result.(type) {
	case model.VariablePage:
		return renderVariablePage(res.Page)
	case model.TaskPage:
		return renderTaskPage(res.Page)
	case model.VariableSaved:
		v := res.Variable
		return fmt.Sprintf("saved %s (id:%d)\n", v.Name, v.ID)
	case model.TaskLog:
		content := res.Content
		if content == "" {
			return fmt.Sprintf("task id:%d has no log yet\n", res.TaskID)
		}
		if len(content) > logTailLimit {
			content = "...\n" + content[len(content)-logTailLimit:]
		}
		return fmt.Sprintf("log for task id:%d:\n%s\n", res.TaskID, content)
	case model.SystemSnapshot:
		info := res.Info
		state := "not initialized"
		if info.Initialized {
			state = "initialized"
		}
		return fmt.Sprintf("panel version %s (%s), %s\n", info.Version, info.Branch, state)
	case model.Acted:
		return fmt.Sprintf("%s: %s (id:%d)\n", res.Action, res.Name, res.ID)
	}
	return fmt.Sprintf("%+v\n", result)
}

func renderVariablePage(page model.Page[model.EnvironmentVariable]) string {
	if page.Total == 0 {
		return "no environment variables\n"
	}
	if len(page.Items) == 0 {
		return fmt.Sprintf("page %d is past the end (%d total)\n", page.Index, page.Total)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "environment variables (page %d, %d total):\n", page.Index, page.Total)
	for _, v := range page.Items {
		state := "off"
		if v.Enabled {
			state = "on "
		}
		fmt.Fprintf(&b, "  [%s] id:%-6d %s = %s\n", state, v.ID, v.Name, truncate(v.Value, 50))
		if v.Remark != "" {
			fmt.Fprintf(&b, "              %s\n", v.Remark)
		}
	}
	if page.HasMore {
		fmt.Fprintf(&b, "more on page %d\n", page.Index+1)
	}
	return b.String()
}

func renderTaskPage(page model.Page[model.ScheduledTask]) string {
	if page.Total == 0 {
		return "no scheduled tasks\n"
	}
	if len(page.Items) == 0 {
		return fmt.Sprintf("page %d is past the end (%d total)\n", page.Index, page.Total)
	}

	now := time.Now()
	var b strings.Builder
	fmt.Fprintf(&b, "scheduled tasks (page %d, %d total):\n", page.Index, page.Total)
	for _, t := range page.Items {
		state := "off"
		if t.Enabled {
			state = "on "
		}
		pin := ""
		if t.Pinned {
			pin = " [pinned]"
		}
		fmt.Fprintf(&b, "  [%s] id:%-6d %s%s\n", state, t.ID, t.Name, pin)
		fmt.Fprintf(&b, "              %s  (%s)\n", truncate(t.Command, 50), t.Schedule)
		if next, err := t.NextRun(now); err == nil {
			fmt.Fprintf(&b, "              next run %s\n", next.Format("2006-01-02 15:04"))
		}
	}
	if page.HasMore {
		fmt.Fprintf(&b, "more on page %d\n", page.Index+1)
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
