package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSetStatusInProgress(t *testing.T) {
	actor := Actor{ID: uuid.New(), Name: "Aoi"}
	now := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)
	task := &BoardTask{Status: TaskStatusNotStarted}

	if err := task.SetStatus(TaskStatusInProgress, actor, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if task.Status != TaskStatusInProgress {
		t.Errorf("status = %s", task.Status)
	}
	if task.CurrentAssignedTo == nil || *task.CurrentAssignedTo != actor.ID {
		t.Error("actor not recorded as assignee")
	}
	if task.CurrentAssignedToName == nil || *task.CurrentAssignedToName != "Aoi" {
		t.Error("assignee name not recorded")
	}
	if task.StartDate == nil || !task.StartDate.Equal(now) {
		t.Error("start date not stamped")
	}
	if task.LastActionAt == nil || !task.LastActionAt.Equal(now) {
		t.Error("lastActionAt not stamped")
	}
}

func TestSetStatusCompleted(t *testing.T) {
	actor := Actor{ID: uuid.New(), Name: "Ren"}
	now := time.Now()
	assignee := uuid.New()
	assigneeName := "Aoi"
	task := &BoardTask{
		Status:                TaskStatusInProgress,
		CurrentAssignedTo:     &assignee,
		CurrentAssignedToName: &assigneeName,
	}

	if err := task.SetStatus(TaskStatusCompleted, actor, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if task.CompletedBy == nil || *task.CompletedBy != actor.ID {
		t.Error("completer not recorded")
	}
	if task.CompletedDate == nil {
		t.Error("completion date not stamped")
	}
	if task.CurrentAssignedTo != nil || task.CurrentAssignedToName != nil {
		t.Error("completion should clear the assignment")
	}
}

func TestSetStatusNotStartedResets(t *testing.T) {
	actor := Actor{ID: uuid.New(), Name: "Ren"}
	now := time.Now()
	someone := uuid.New()
	name := "Aoi"
	task := &BoardTask{
		Status:            TaskStatusCompleted,
		CompletedBy:       &someone,
		CompletedByName:   &name,
		CompletedDate:     &now,
		CurrentAssignedTo: &someone,
	}

	if err := task.SetStatus(TaskStatusNotStarted, actor, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if task.CompletedBy != nil || task.CompletedDate != nil || task.CompletedByName != nil {
		t.Error("reset should clear completion fields")
	}
	if task.CurrentAssignedTo != nil {
		t.Error("reset should clear assignment")
	}
}

func TestSetStatusReworkClearsCompletion(t *testing.T) {
	actor := Actor{ID: uuid.New(), Name: "Ren"}
	now := time.Now()
	someone := uuid.New()
	task := &BoardTask{
		Status:        TaskStatusCompleted,
		CompletedBy:   &someone,
		CompletedDate: &now,
	}

	if err := task.SetStatus(TaskStatusInProgress, actor, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if task.CompletedBy != nil || task.CompletedDate != nil {
		t.Error("rework should clear completion fields")
	}
	if task.CurrentAssignedTo == nil || *task.CurrentAssignedTo != actor.ID {
		t.Error("rework should assign the acting user")
	}
}

func TestSetStatusRequiresActor(t *testing.T) {
	task := &BoardTask{Status: TaskStatusNotStarted}
	err := task.SetStatus(TaskStatusInProgress, Actor{}, time.Now())
	if !errors.Is(err, ErrMissingActor) {
		t.Errorf("expected ErrMissingActor, got %v", err)
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	task := &BoardTask{Status: TaskStatusNotStarted}
	err := task.SetStatus(TaskStatus("paused"), Actor{ID: uuid.New()}, time.Now())
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestEffectiveActionTime(t *testing.T) {
	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	task := BoardTask{CreatedAt: created}

	if !task.EffectiveActionTime().Equal(created) {
		t.Error("without lastActionAt the sort key is createdAt")
	}

	acted := created.Add(2 * time.Hour)
	task.LastActionAt = &acted
	if !task.EffectiveActionTime().Equal(acted) {
		t.Error("lastActionAt should win when set")
	}
}

func TestSortBoard(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	bump := base.Add(3 * time.Hour)

	// T-1 created first but touched most recently, T-2 created last,
	// T-3 untouched and oldest.
	tasks := []BoardTask{
		{ID: 3, CreatedAt: base.Add(-time.Hour)},
		{ID: 1, CreatedAt: base, LastActionAt: &bump},
		{ID: 2, CreatedAt: base.Add(time.Hour)},
	}

	SortBoard(tasks)

	gotIDs := []int{tasks[0].ID, tasks[1].ID, tasks[2].ID}
	wantIDs := []int{1, 2, 3}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Fatalf("board order = %v, want %v", gotIDs, wantIDs)
		}
	}
}

func TestSortBoardDeterministicTieBreak(t *testing.T) {
	at := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	tasks := []BoardTask{
		{ID: 9, CreatedAt: at},
		{ID: 2, CreatedAt: at},
		{ID: 5, CreatedAt: at},
	}

	SortBoard(tasks)

	if tasks[0].ID != 2 || tasks[1].ID != 5 || tasks[2].ID != 9 {
		t.Errorf("equal timestamps must fall back to ascending ID, got %d,%d,%d", tasks[0].ID, tasks[1].ID, tasks[2].ID)
	}
}

func TestMemoBumpReordersBoard(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	tasks := []BoardTask{
		{ID: 1, CreatedAt: base.Add(time.Hour)},
		{ID: 2, CreatedAt: base},
	}

	SortBoard(tasks)
	if tasks[0].ID != 1 {
		t.Fatal("newest creation should lead before any action")
	}

	// A memo on the older task bumps it to the top.
	for i := range tasks {
		if tasks[i].ID == 2 {
			tasks[i].TouchAction(base.Add(2 * time.Hour))
		}
	}
	SortBoard(tasks)
	if tasks[0].ID != 2 {
		t.Error("touched task should surface first")
	}
}
