package tui

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/Joseda-hg/devtasks/internal/db"
	"github.com/Joseda-hg/devtasks/internal/model"
)

const (
	viewHeader = "header"
	viewFooter = "footer"
	viewTasks  = "tasks"
	viewDetail = "detail"
	viewAdd    = "add"
)

// Store is the subset of the task store the console drives.
type Store interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, input db.CreateInput) (int64, error)
	UpdateTask(ctx context.Context, taskID int64, input db.UpdateInput) (db.Outcome, error)
	DeleteTask(ctx context.Context, taskID int64) (db.Outcome, error)
}

type UI struct {
	store Store
	gui   *gocui.Gui

	tasks    []model.Task
	selected int

	addActive bool
	status    string
}

func Run(store Store) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := &UI{store: store, gui: gui}
	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	if err := ui.loadTasks(); err != nil {
		return err
	}

	if err := gui.MainLoop(); err != nil && !goerrors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	bindings := []struct {
		view    string
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{"", gocui.KeyCtrlC, u.quit},
		{"", 'q', u.quit},
		{"", 'r', u.reload},
		{"", 'a', u.openAdd},
		{"", 'd', u.deleteTask},
		{"", 'x', u.toggleCompleted},
		{"", 'c', u.toggleInProgress},
		{viewTasks, gocui.KeyArrowDown, u.moveDown},
		{viewTasks, 'j', u.moveDown},
		{viewTasks, gocui.KeyArrowUp, u.moveUp},
		{viewTasks, 'k', u.moveUp},
		{viewAdd, gocui.KeyEnter, u.submitAdd},
		{viewAdd, gocui.KeyEsc, u.cancelAdd},
	}
	for _, b := range bindings {
		if err := gui.SetKeybinding(b.view, b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.Clear()
	fmt.Fprintf(headerView, "devtasks | %d tasks", len(u.tasks))

	footerY1 := max(maxY-2, 1)
	footerY0 := max(footerY1-1, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom <= bodyTop {
		return nil
	}
	listX1 := max(maxX/2, 30)
	if listX1 >= maxX-1 {
		listX1 = maxX - 2
	}

	tasksView, err := gui.SetView(viewTasks, 0, bodyTop, listX1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		tasksView.Title = "Tasks"
		tasksView.TitleColor = gocui.ColorCyan
	}
	tasksView.Highlight = true
	tasksView.SelBgColor = gocui.ColorBlue
	tasksView.SelFgColor = gocui.ColorBlack
	u.renderTaskList(tasksView)

	detailView, err := gui.SetView(viewDetail, listX1+1, bodyTop, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		detailView.Title = "Detail"
		detailView.Wrap = true
	}
	u.renderDetail(detailView)

	if u.addActive {
		if err := u.showAdd(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewAdd)
		if gui.CurrentView() == nil || gui.CurrentView().Name() != viewTasks {
			_, _ = gui.SetCurrentView(viewTasks)
		}
	}
	gui.Cursor = u.addActive
	return nil
}

func (u *UI) loadTasks() error {
	tasks, err := u.store.ListTasks(context.Background())
	if err != nil {
		return err
	}
	u.tasks = tasks
	if u.selected >= len(u.tasks) {
		u.selected = max(len(u.tasks)-1, 0)
	}
	return nil
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	fmt.Fprintln(view, "a add | x completed | c in progress | d delete | j/k move | r reload | q quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderTaskList(view *gocui.View) {
	view.Clear()
	for _, task := range u.tasks {
		fmt.Fprintln(view, formatTaskSummary(task))
	}
	if len(u.tasks) == 0 {
		fmt.Fprint(view, "no tasks, press a to add one")
		return
	}
	view.SetOrigin(0, 0)
	_, height := view.Size()
	if height > 0 && u.selected >= height {
		view.SetOrigin(0, u.selected-height+1)
		view.SetCursor(0, height-1)
		return
	}
	view.SetCursor(0, u.selected)
}

func (u *UI) renderDetail(view *gocui.View) {
	view.Clear()
	selected := u.selectedTask()
	if selected == nil {
		fmt.Fprint(view, "No task selected")
		return
	}
	fmt.Fprint(view, formatTaskDetail(*selected))
}

func (u *UI) selectedTask() *model.Task {
	if u.selected >= 0 && u.selected < len(u.tasks) {
		return &u.tasks[u.selected]
	}
	return nil
}

func (u *UI) moveDown(_ *gocui.Gui, _ *gocui.View) error {
	if u.addActive {
		return nil
	}
	if u.selected < len(u.tasks)-1 {
		u.selected++
	}
	return nil
}

func (u *UI) moveUp(_ *gocui.Gui, _ *gocui.View) error {
	if u.addActive {
		return nil
	}
	if u.selected > 0 {
		u.selected--
	}
	return nil
}

func (u *UI) reload(_ *gocui.Gui, _ *gocui.View) error {
	if u.addActive {
		return nil
	}
	u.status = ""
	return u.loadTasks()
}

func (u *UI) openAdd(_ *gocui.Gui, _ *gocui.View) error {
	if u.addActive {
		return nil
	}
	u.addActive = true
	return nil
}

func (u *UI) showAdd(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(30, maxX/2)
	height := 2
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewAdd, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "New task title"
		view.Clear()
	}
	view.Editable = true
	view.Editor = gocui.DefaultEditor
	_, _ = gui.SetCurrentView(viewAdd)
	return nil
}

func (u *UI) submitAdd(gui *gocui.Gui, view *gocui.View) error {
	title := strings.TrimSpace(view.Buffer())
	u.closeAdd(gui)
	return u.createTask(title)
}

func (u *UI) cancelAdd(gui *gocui.Gui, _ *gocui.View) error {
	u.closeAdd(gui)
	return nil
}

func (u *UI) closeAdd(gui *gocui.Gui) {
	u.addActive = false
	if gui == nil {
		return
	}
	_ = gui.DeleteView(viewAdd)
	_, _ = gui.SetCurrentView(viewTasks)
}

func (u *UI) createTask(title string) error {
	if title == "" {
		u.status = "title is required"
		return nil
	}
	if _, err := u.store.CreateTask(context.Background(), db.CreateInput{Title: title}); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = ""
	// Newest first, so the new task is at the top.
	u.selected = 0
	return u.loadTasks()
}

func (u *UI) deleteTask(_ *gocui.Gui, _ *gocui.View) error {
	if u.addActive {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	u.report(u.store.DeleteTask(context.Background(), selected.ID))
	return u.loadTasks()
}

func (u *UI) toggleCompleted(_ *gocui.Gui, _ *gocui.View) error {
	return u.toggleStatus(statusCompleted)
}

func (u *UI) toggleInProgress(_ *gocui.Gui, _ *gocui.View) error {
	return u.toggleStatus(statusInProgress)
}

func (u *UI) toggleStatus(target string) error {
	if u.addActive {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	status := toggledStatus(selected.Status, target)
	u.report(u.store.UpdateTask(context.Background(), selected.ID, db.UpdateInput{Status: &status}))
	return u.loadTasks()
}

// report turns a write outcome into the footer status line.
func (u *UI) report(outcome db.Outcome, err error) {
	switch {
	case err != nil:
		u.status = err.Error()
	case outcome == db.OutcomeNotFound:
		u.status = "task no longer exists"
	default:
		u.status = ""
	}
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}
