package gorm

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/auth"
	"github.com/ichigozero/taskdash/project"
	"github.com/ichigozero/taskdash/task"
	"github.com/ichigozero/taskdash/watchlist"
	stdgorm "gorm.io/gorm"
)

func openTestDB(t *testing.T) *stdgorm.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(db); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestUserRepository(t *testing.T) {
	users := NewUserRepository(openTestDB(t))

	u, err := users.Create("Ann", "ann@example.com", "hash")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID == 0 {
		t.Errorf("want an assigned ID")
	}
	if _, err := users.Create("Other", "ann@example.com", "hash"); !errors.Is(err, auth.ErrEmailTaken) {
		t.Errorf("want ErrEmailTaken, have %v", err)
	}

	found, hash, err := users.FindByEmail("ann@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if found.ID != u.ID || hash != "hash" {
		t.Errorf("want %+v with hash, have %+v %q", u, found, hash)
	}
	if _, _, err := users.FindByEmail("bob@example.com"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, have %v", err)
	}
}

func TestUserIDColumnRoundTrip(t *testing.T) {
	projects := NewProjectRepository(openTestDB(t))

	for _, id := range []taskdash.UserID{taskdash.ParseUserID("7"), taskdash.ParseUserID("abc")} {
		p, err := projects.Create("Home", "", id)
		if err != nil {
			t.Fatal(err)
		}
		all, err := projects.FindAll(id)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 1 || all[0].ID != p.ID {
			t.Fatalf("FindAll(%s): want [%d], have %+v", id, p.ID, all)
		}
		if all[0].UserID.Raw() != id.Raw() {
			t.Errorf("want user %s, have %s", id.Raw(), all[0].UserID.Raw())
		}
	}
}

func TestProjectUpdate(t *testing.T) {
	projects := NewProjectRepository(openTestDB(t))
	user := taskdash.ParseUserID("1")

	p, _ := projects.Create("Home", "chores", user)
	p.Name, p.Description = "House", ""

	updated, err := projects.Update(p)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "House" || updated.Description != "" || updated.UserID.Raw() != "1" {
		t.Errorf("unexpected update result %+v", updated)
	}

	if _, err := projects.Update(project.Project{ID: 99, Name: "x"}); !errors.Is(err, project.ErrNotFound) {
		t.Errorf("want ErrNotFound, have %v", err)
	}
}

func TestProjectDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	projects := NewProjectRepository(db)
	tasks := NewTaskRepository(db)
	entries := NewEntryRepository(db)
	user := taskdash.ParseUserID("1")
	deadline := time.Date(2030, 1, 2, 15, 4, 0, 0, time.UTC)

	doomed, _ := projects.Create("Home", "", user)
	kept, _ := projects.Create("Work", "", user)

	var doomedTask, keptTask task.Task
	for _, tc := range []struct {
		projectID uint64
		out       *task.Task
	}{
		{doomed.ID, &doomedTask},
		{kept.ID, &keptTask},
	} {
		created, err := tasks.Create(task.Task{
			Title:     "t",
			Status:    task.StatusIncomplete,
			Priority:  task.PriorityMedium,
			Deadline:  deadline,
			ProjectID: tc.projectID,
			UserID:    user,
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entries.Add(user, created.ID); err != nil {
			t.Fatal(err)
		}
		*tc.out = created
	}

	if !keptTask.Deadline.Equal(deadline) {
		t.Errorf("deadline: want %v, have %v", deadline, keptTask.Deadline)
	}

	if _, err := projects.Delete(doomed.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := projects.Find(doomed.ID); !errors.Is(err, project.ErrNotFound) {
		t.Errorf("project still there: %v", err)
	}
	if _, err := tasks.Find(doomedTask.ID); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("task of deleted project still there: %v", err)
	}

	watched, err := entries.FindAll(user)
	if err != nil {
		t.Fatal(err)
	}
	if len(watched) != 1 || watched[0].TaskID != keptTask.ID {
		t.Fatalf("want only task %d watched, have %+v", keptTask.ID, watched)
	}
	if watched[0].Task == nil || watched[0].Task.ProjectID != kept.ID {
		t.Errorf("want the watched task embedded, have %+v", watched[0].Task)
	}

	if _, err := projects.Delete(doomed.ID); !errors.Is(err, project.ErrNotFound) {
		t.Errorf("second delete: want ErrNotFound, have %v", err)
	}
}

func TestEntryRepository(t *testing.T) {
	db := openTestDB(t)
	projects := NewProjectRepository(db)
	tasks := NewTaskRepository(db)
	entries := NewEntryRepository(db)
	user := taskdash.ParseUserID("1")

	p, _ := projects.Create("Home", "", user)
	tk, _ := tasks.Create(task.Task{Title: "t", ProjectID: p.ID, Deadline: time.Now(), UserID: user})

	e, err := entries.Add(user, tk.ID)
	if err != nil {
		t.Fatal(err)
	}
	if e.Task == nil || e.Task.ID != tk.ID {
		t.Errorf("want task embedded in the new entry, have %+v", e)
	}
	if _, err := entries.Add(user, tk.ID); !errors.Is(err, watchlist.ErrAlreadyWatched) {
		t.Errorf("want ErrAlreadyWatched, have %v", err)
	}

	if err := entries.Remove(user, tk.ID); err != nil {
		t.Fatal(err)
	}
	if err := entries.Remove(user, tk.ID); !errors.Is(err, watchlist.ErrNotFound) {
		t.Errorf("want ErrNotFound, have %v", err)
	}

	if _, err := tasks.Delete(tk.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := tasks.Delete(tk.ID); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("want ErrNotFound, have %v", err)
	}
}

func TestConcurrentAddsWatchOnce(t *testing.T) {
	db := openTestDB(t)
	projects := NewProjectRepository(db)
	tasks := NewTaskRepository(db)
	entries := NewEntryRepository(db)
	user := taskdash.ParseUserID("1")

	p, _ := projects.Create("Home", "", user)
	tk, _ := tasks.Create(task.Task{Title: "t", ProjectID: p.ID, Deadline: time.Now(), UserID: user})

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = entries.Add(user, tk.ID)
		}(i)
	}
	wg.Wait()

	var added int
	for _, err := range errs {
		switch {
		case err == nil:
			added++
		case !errors.Is(err, watchlist.ErrAlreadyWatched):
			t.Errorf("want ErrAlreadyWatched, have %v", err)
		}
	}
	if added != 1 {
		t.Errorf("want exactly one successful add, have %d", added)
	}
}
