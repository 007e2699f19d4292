package tui

import (
	"context"
	"testing"

	"github.com/Joseda-hg/devtasks/internal/db"
	"github.com/Joseda-hg/devtasks/internal/model"
)

func TestToggleTaskStates(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if _, err := store.CreateTask(context.Background(), db.CreateInput{Title: "Toggle status"}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	t.Run("toggle completed", func(t *testing.T) {
		ui := newTestUI(t, store)

		if err := ui.toggleCompleted(nil, nil); err != nil {
			t.Fatalf("toggle completed: %v", err)
		}
		if status := taskStatus(t, store); status != "completed" {
			t.Fatalf("expected status 'completed', got %q", status)
		}

		if err := ui.toggleCompleted(nil, nil); err != nil {
			t.Fatalf("toggle completed again: %v", err)
		}
		if status := taskStatus(t, store); status != "pending" {
			t.Fatalf("expected status 'pending', got %q", status)
		}
	})

	t.Run("toggle in progress", func(t *testing.T) {
		ui := newTestUI(t, store)

		if err := ui.toggleInProgress(nil, nil); err != nil {
			t.Fatalf("toggle in progress: %v", err)
		}
		if status := taskStatus(t, store); status != "in-progress" {
			t.Fatalf("expected status 'in-progress', got %q", status)
		}
		if ui.tasks[0].Title != "Toggle status" {
			t.Fatalf("expected title to be kept, got %q", ui.tasks[0].Title)
		}
	})
}

func TestCreateAndDeleteFromConsole(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	ui := newTestUI(t, store)
	if err := ui.createTask(""); err != nil {
		t.Fatalf("create empty: %v", err)
	}
	if ui.status == "" || len(ui.tasks) != 0 {
		t.Fatalf("expected empty title to be refused, status=%q tasks=%d", ui.status, len(ui.tasks))
	}

	if err := ui.createTask("First"); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := ui.createTask("Second"); err != nil {
		t.Fatalf("create second: %v", err)
	}
	if len(ui.tasks) != 2 || ui.selected != 0 {
		t.Fatalf("expected 2 tasks with the newest selected, got %d selected=%d", len(ui.tasks), ui.selected)
	}

	if err := ui.moveDown(nil, nil); err != nil {
		t.Fatalf("move down: %v", err)
	}
	if err := ui.deleteTask(nil, nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(ui.tasks) != 1 || ui.tasks[0].Title != "Second" {
		t.Fatalf("expected only 'Second' to remain, got %+v", ui.tasks)
	}
	if ui.selected != 0 {
		t.Fatalf("expected selection to be clamped, got %d", ui.selected)
	}
}

func TestReportOutcome(t *testing.T) {
	ui := &UI{}

	ui.report(db.OutcomeNotFound, nil)
	if ui.status != "task no longer exists" {
		t.Fatalf("unexpected status %q", ui.status)
	}
	ui.report(db.OutcomeApplied, nil)
	if ui.status != "" {
		t.Fatalf("expected status to be cleared, got %q", ui.status)
	}
}

func TestToggledStatus(t *testing.T) {
	cases := []struct {
		current, target, want string
	}{
		{"pending", statusCompleted, statusCompleted},
		{statusCompleted, statusCompleted, model.StatusPending},
		{"blocked", statusInProgress, statusInProgress},
	}
	for _, tc := range cases {
		if got := toggledStatus(tc.current, tc.target); got != tc.want {
			t.Fatalf("toggledStatus(%q, %q) = %q, want %q", tc.current, tc.target, got, tc.want)
		}
	}
}

func taskStatus(t *testing.T, store *db.Store) string {
	t.Helper()
	tasks, err := store.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	return tasks[0].Status
}

func newTestUI(t *testing.T, store Store) *UI {
	t.Helper()
	ui := &UI{store: store}
	if err := ui.loadTasks(); err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	return ui
}

func newTestStore(t *testing.T) (*db.Store, func()) {
	t.Helper()
	dbConn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db.NewStore(dbConn), func() {
		_ = dbConn.Close()
	}
}
