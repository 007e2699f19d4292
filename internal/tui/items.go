package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/devtasks/internal/model"
)

const (
	statusInProgress = "in-progress"
	statusCompleted  = "completed"
)

func formatTaskSummary(task model.Task) string {
	return fmt.Sprintf("#%-4d %-12s %s", task.ID, statusLabel(task.Status), task.Title)
}

func formatTaskDetail(task model.Task) string {
	description := "none"
	if task.Description != nil && strings.TrimSpace(*task.Description) != "" {
		description = *task.Description
	}

	return strings.Join([]string{
		fmt.Sprintf("Title:       %s", task.Title),
		fmt.Sprintf("Status:      %s", statusLabel(task.Status)),
		fmt.Sprintf("Created:     %s", formatTime(task.CreatedAt)),
		fmt.Sprintf("Updated:     %s", formatTime(task.UpdatedAt)),
		"",
		description,
	}, "\n")
}

func statusLabel(status string) string {
	if strings.TrimSpace(status) == "" {
		return "-"
	}
	return status
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "n/a"
	}
	return value.Local().Format("2006-01-02 15:04")
}

// toggledStatus flips between target and pending.
func toggledStatus(current, target string) string {
	if current == target {
		return model.StatusPending
	}
	return target
}
