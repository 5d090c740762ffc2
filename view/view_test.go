package view

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/auth"
	"github.com/ichigozero/taskdash/client"
	"github.com/ichigozero/taskdash/internal/apitest"
	"github.com/ichigozero/taskdash/project"
	"github.com/ichigozero/taskdash/session"
	"github.com/ichigozero/taskdash/session/tokenstore"
	"github.com/ichigozero/taskdash/task"
)

type fakeUI struct {
	alerts   []string
	routes   []Route
	confirms []string
	answer   bool
}

func (u *fakeUI) Alert(message string) { u.alerts = append(u.alerts, message) }

func (u *fakeUI) Confirm(message string) bool {
	u.confirms = append(u.confirms, message)
	return u.answer
}

func (u *fakeUI) Navigate(to Route) { u.routes = append(u.routes, to) }

func (u *fakeUI) lastAlert() string {
	if len(u.alerts) == 0 {
		return ""
	}
	return u.alerts[len(u.alerts)-1]
}

func (u *fakeUI) lastRoute() Route {
	if len(u.routes) == 0 {
		return ""
	}
	return u.routes[len(u.routes)-1]
}

type fakeAuth struct {
	calls    int
	register func(name, email, password string) (auth.User, error)
	login    func(email, password string) (string, error)
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (string, error) {
	f.calls++
	return f.login(email, password)
}

func (f *fakeAuth) Register(_ context.Context, name, email, password string) (auth.User, error) {
	f.calls++
	return f.register(name, email, password)
}

// fixture is a logged-in user of a fresh stub backend.
type fixture struct {
	srv     *apitest.Server
	client  *client.Client
	session *session.Manager
	ui      *fakeUI
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	srv := apitest.NewServer(t)
	c, err := client.New(client.Config{URL: srv.URL}, log.NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}

	s := session.New(tokenstore.NewMemoryStore(), log.NewNopLogger())
	if err := s.SignIn(srv.SignUp(t, "Ann", "ann@example.com", "Passw0rd!")); err != nil {
		t.Fatal(err)
	}

	return &fixture{srv: srv, client: c, session: s, ui: &fakeUI{answer: true}}
}

func (f *fixture) projects(t *testing.T) *Projects {
	t.Helper()
	c := NewProjects(f.client, f.session, f.ui, log.NewNopLogger())
	if err := c.Mount(context.Background()); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return c
}

func TestRegisterValidationSkipsRequest(t *testing.T) {
	for _, tc := range []struct {
		name string
		form RegisterForm
		want string
	}{
		{"no name", RegisterForm{Email: "a@b.co", Password: "Passw0rd!"}, msgInvalidName},
		{"email without domain dot", RegisterForm{Name: "A", Email: "a@b", Password: "Passw0rd!"}, msgInvalidEmail},
		{"email with space", RegisterForm{Name: "A", Email: "a b@c.de", Password: "Passw0rd!"}, msgInvalidEmail},
		{"short password", RegisterForm{Name: "A", Email: "a@b.co", Password: "Pa0!"}, msgWeakPassword},
		{"no special", RegisterForm{Name: "A", Email: "a@b.co", Password: "Passw0rdd"}, msgWeakPassword},
		{"no upper", RegisterForm{Name: "A", Email: "a@b.co", Password: "passw0rd!"}, msgWeakPassword},
		{"foreign character", RegisterForm{Name: "A", Email: "a@b.co", Password: "Passw0rd!#"}, msgWeakPassword},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeAuth{}
			ui := &fakeUI{}
			c := NewRegister(svc, session.New(nil, log.NewNopLogger()), ui, log.NewNopLogger())
			c.Form = tc.form

			if err := c.Submit(context.Background()); err == nil {
				t.Fatal("want a validation error")
			}
			if svc.calls != 0 {
				t.Errorf("want no request, have %d", svc.calls)
			}
			if ui.lastAlert() != tc.want {
				t.Errorf("alert: want %q, have %q", tc.want, ui.lastAlert())
			}
		})
	}
}

func TestRegisterLoading(t *testing.T) {
	ui := &fakeUI{}
	var c *Register
	svc := &fakeAuth{register: func(name, email, password string) (auth.User, error) {
		if !c.Loading {
			t.Error("Loading: want true during the call")
		}
		return auth.User{ID: 1, Name: name, Email: email}, nil
	}}
	c = NewRegister(svc, session.New(nil, log.NewNopLogger()), ui, log.NewNopLogger())
	c.Form = RegisterForm{Name: "Ann", Email: "ann@example.com", Password: "Passw0rd!"}

	if err := c.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Loading {
		t.Error("Loading: want false after the call")
	}
	if c.Form != (RegisterForm{}) {
		t.Errorf("form not cleared: %+v", c.Form)
	}
	if ui.lastAlert() != msgRegistered || ui.lastRoute() != RouteLogin {
		t.Errorf("want %q and %s, have %q and %s", msgRegistered, RouteLogin, ui.lastAlert(), ui.lastRoute())
	}
}

func TestRegisterFailureMessage(t *testing.T) {
	srv := apitest.NewServer(t)
	c, _ := client.New(client.Config{URL: srv.URL}, log.NewNopLogger())

	ui := &fakeUI{}
	r := NewRegister(c.Auth, session.New(nil, log.NewNopLogger()), ui, log.NewNopLogger())
	r.Form = RegisterForm{Name: "Ann", Email: "ann@example.com", Password: "Passw0rd!"}
	if err := r.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	r.Form = RegisterForm{Name: "Ann", Email: "ann@example.com", Password: "Passw0rd!"}
	err := r.Submit(context.Background())
	if taskdash.StatusCode(err) != http.StatusConflict {
		t.Fatalf("want 409, have %v", err)
	}
	if want := auth.ErrEmailTaken.Error(); ui.lastAlert() != want {
		t.Errorf("alert: want backend message %q, have %q", want, ui.lastAlert())
	}
	if r.Form.Email != "ann@example.com" {
		t.Error("form cleared on failure")
	}

	svc := &fakeAuth{register: func(_, _, _ string) (auth.User, error) {
		return auth.User{}, errors.New("connection refused")
	}}
	r = NewRegister(svc, session.New(nil, log.NewNopLogger()), ui, log.NewNopLogger())
	r.Form = RegisterForm{Name: "Ann", Email: "ann@example.com", Password: "Passw0rd!"}
	r.Submit(context.Background())
	if ui.lastAlert() != msgRegisterFailed {
		t.Errorf("alert: want %q, have %q", msgRegisterFailed, ui.lastAlert())
	}
}

func TestRegisterMountRedirects(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	store.Put(session.TokenKey, []byte("a.b.c"))
	ui := &fakeUI{}

	NewRegister(&fakeAuth{}, session.New(store, log.NewNopLogger()), ui, log.NewNopLogger()).Mount()
	if ui.lastRoute() != RouteProjects {
		t.Errorf("want redirect to %s, have %v", RouteProjects, ui.routes)
	}

	ui = &fakeUI{}
	NewRegister(&fakeAuth{}, session.New(nil, log.NewNopLogger()), ui, log.NewNopLogger()).Mount()
	if len(ui.routes) != 0 {
		t.Errorf("want no redirect, have %v", ui.routes)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	s := session.New(tokenstore.NewMemoryStore(), log.NewNopLogger())
	ui := &fakeUI{}
	c := NewLogin(f.client.Auth, s, ui, log.NewNopLogger())

	c.Form = LoginForm{Email: "ann@example.com", Password: "wrong"}
	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("want an error for bad credentials")
	}
	if ui.lastAlert() != msgLoginFailed || s.IsAuthenticated() {
		t.Errorf("want %q and no token, have %q", msgLoginFailed, ui.lastAlert())
	}

	c.Form = LoginForm{Email: "ann@example.com", Password: "Passw0rd!"}
	if err := c.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if ui.lastAlert() != msgLoggedIn || ui.lastRoute() != RouteProjects {
		t.Errorf("want %q and %s, have %q and %s", msgLoggedIn, RouteProjects, ui.lastAlert(), ui.lastRoute())
	}
	if id, ok := s.ResolveUserID(); !ok || !id.IsNumeric() {
		t.Errorf("want a numeric user ID from the stored token, have %q", id.Raw())
	}
}

func TestLoginWithoutTokenFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cl, err := client.New(client.Config{URL: srv.URL}, log.NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}
	s := session.New(tokenstore.NewMemoryStore(), log.NewNopLogger())
	ui := &fakeUI{}
	c := NewLogin(cl.Auth, s, ui, log.NewNopLogger())
	c.Form = LoginForm{Email: "ann@example.com", Password: "Passw0rd!"}

	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("want an error for a response without a token")
	}
	if ui.lastAlert() != msgLoginFailed || len(ui.routes) != 0 || s.IsAuthenticated() {
		t.Errorf("want %q, no navigation and no session, have %v %v", msgLoginFailed, ui.alerts, ui.routes)
	}
}

func TestProjectsMountNotLoggedIn(t *testing.T) {
	for _, tok := range []string{"", "garbage", apitest.Token(t, 0), apitest.Token(t, "")} {
		store := tokenstore.NewMemoryStore()
		if tok != "" {
			store.Put(session.TokenKey, []byte(tok))
		}
		ui := &fakeUI{}
		c := NewProjects(&client.Client{}, session.New(store, log.NewNopLogger()), ui, log.NewNopLogger())

		if err := c.Mount(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
			t.Errorf("token %q: want ErrNotLoggedIn, have %v", tok, err)
		}
		if ui.lastAlert() != msgNotLoggedIn || ui.lastRoute() != RouteLogin {
			t.Errorf("token %q: want %q and %s, have %v and %v", tok, msgNotLoggedIn, RouteLogin, ui.alerts, ui.routes)
		}
	}
}

func TestCreateProjectListsItOnce(t *testing.T) {
	f := newFixture(t)
	c := f.projects(t)
	ctx := context.Background()

	if len(c.Projects) != 0 {
		t.Fatalf("want no projects yet, have %d", len(c.Projects))
	}

	c.NewProject = ProjectForm{Name: "Home", Description: "chores"}
	if err := c.CreateProject(ctx); err != nil {
		t.Fatal(err)
	}
	if len(c.Projects) != 1 || c.Projects[0].Name != "Home" {
		t.Fatalf("want exactly the new project, have %+v", c.Projects)
	}
	if c.NewProject != (ProjectForm{}) {
		t.Errorf("form not reset: %+v", c.NewProject)
	}
	if f.ui.lastAlert() != msgProjectCreated {
		t.Errorf("alert: want %q, have %q", msgProjectCreated, f.ui.lastAlert())
	}
}

func TestCreateProjectRequiresFields(t *testing.T) {
	f := newFixture(t)
	c := f.projects(t)

	c.NewProject = ProjectForm{Name: "Home"}
	if err := c.CreateProject(context.Background()); err == nil {
		t.Fatal("want a validation error")
	}
	if f.ui.lastAlert() != msgMissingFields {
		t.Errorf("alert: want %q, have %q", msgMissingFields, f.ui.lastAlert())
	}
	c.Refresh(context.Background(), ScopeProjects)
	if len(c.Projects) != 0 {
		t.Errorf("want no project created, have %d", len(c.Projects))
	}
}

func TestCreateProjectFailureRestoresForm(t *testing.T) {
	f := newFixture(t)
	c := f.projects(t)
	f.srv.Close()

	c.NewProject = ProjectForm{Name: "Home", Description: "chores"}
	if err := c.CreateProject(context.Background()); err == nil {
		t.Fatal("want an error with the backend down")
	}
	if c.NewProject.Name != "Home" {
		t.Errorf("form not restored: %+v", c.NewProject)
	}
	if f.ui.lastAlert() != msgProjectCreateErr {
		t.Errorf("alert: want %q, have %q", msgProjectCreateErr, f.ui.lastAlert())
	}
}

// projectsState is everything a failed action must leave untouched.
type projectsState struct {
	Projects    []project.Project
	Selected    project.Project
	Tasks       []task.Task
	ShowDetails bool
}

func stateOf(c *Projects) projectsState {
	st := projectsState{Projects: c.Projects, Tasks: c.Tasks, ShowDetails: c.ShowDetails}
	if c.Selected != nil {
		st.Selected = *c.Selected
	}
	return st
}

func TestFailuresKeepState(t *testing.T) {
	f := newFixture(t)
	c := f.projects(t)
	ctx := context.Background()

	c.NewProject = ProjectForm{Name: "Home", Description: "chores"}
	c.CreateProject(ctx)
	c.SelectProject(ctx, c.Projects[0].ID)
	c.NewTask.Title = "Dishes"
	c.NewTask.Deadline = "2030-01-02"
	c.CreateTask(ctx)
	if len(c.Tasks) != 1 {
		t.Fatalf("want 1 task, have %d", len(c.Tasks))
	}
	tk := c.Tasks[0]
	c.AddToWatchlist(ctx, tk.ID)

	w := NewWatchlist(f.client.Watchlist, f.session, f.ui, log.NewNopLogger())
	if err := w.Mount(ctx); err != nil {
		t.Fatal(err)
	}
	entries := w.Entries

	f.srv.Close()
	before := stateOf(c)

	check := func(action, alert string, err error) {
		t.Helper()
		if err == nil {
			t.Errorf("%s: want an error with the backend down", action)
		}
		if f.ui.lastAlert() != alert {
			t.Errorf("%s: alert: want %q, have %q", action, alert, f.ui.lastAlert())
		}
		if have := stateOf(c); !reflect.DeepEqual(have, before) {
			t.Errorf("%s: state changed:\nwant %+v\nhave %+v", action, before, have)
		}
	}

	c.EditProject.Name = "House"
	edit := c.EditProject
	check("update project", msgProjectUpdateErr, c.UpdateProject(ctx))
	if c.EditProject != edit {
		t.Errorf("edit form not restored: want %+v, have %+v", edit, c.EditProject)
	}

	check("delete project", msgProjectDeleteErr, c.DeleteProject(ctx, before.Selected.ID))

	c.NewTask = TaskForm{Title: "Laundry", Priority: "High", Deadline: "2030-03-04"}
	form := c.NewTask
	check("create task", msgTaskCreateErr, c.CreateTask(ctx))
	if c.NewTask != form {
		t.Errorf("task form not restored: want %+v, have %+v", form, c.NewTask)
	}

	check("delete task", msgTaskDeleteErr, c.DeleteTask(ctx, tk.ID))

	if err := w.Remove(ctx, tk.ID); err == nil {
		t.Error("remove from watchlist: want an error with the backend down")
	}
	if f.ui.lastAlert() != msgUnwatchErr {
		t.Errorf("remove from watchlist: alert: want %q, have %q", msgUnwatchErr, f.ui.lastAlert())
	}
	if !reflect.DeepEqual(w.Entries, entries) {
		t.Errorf("watchlist changed: want %+v, have %+v", entries, w.Entries)
	}
}

func TestUpdateProjectRoundTrip(t *testing.T) {
	f := newFixture(t)
	c := f.projects(t)
	ctx := context.Background()

	c.NewProject = ProjectForm{Name: "Home", Description: "chores"}
	c.CreateProject(ctx)
	if err := c.SelectProject(ctx, c.Projects[0].ID); err != nil {
		t.Fatal(err)
	}

	c.EditProject.Name = "House"
	c.EditProject.Description = "weekend chores"
	if err := c.UpdateProject(ctx); err != nil {
		t.Fatal(err)
	}
	if c.Projects[0].Name != "House" || c.Projects[0].Description != "weekend chores" {
		t.Errorf("list not refreshed: %+v", c.Projects[0])
	}
	if c.Selected == nil || c.Selected.Name != "House" {
		t.Errorf("details not refreshed: %+v", c.Selected)
	}
	if f.ui.lastAlert() != msgProjectUpdated {
		t.Errorf("alert: want %q, have %q", msgProjectUpdated, f.ui.lastAlert())
	}
}

func TestUpdateProjectWithoutSelection(t *testing.T) {
	f := newFixture(t)
	c := f.projects(t)

	if err := c.UpdateProject(context.Background()); !errors.Is(err, ErrNoProjectSelected) {
		t.Errorf("want ErrNoProjectSelected, have %v", err)
	}
	if f.ui.lastAlert() != msgNoProjectToUpdate {
		t.Errorf("alert: want %q, have %q", msgNoProjectToUpdate, f.ui.lastAlert())
	}
}

func TestTasksAndWatchlist(t *testing.T) {
	f := newFixture(t)
	c := f.projects(t)
	ctx := context.Background()

	c.NewProject = ProjectForm{Name: "Home", Description: "chores"}
	c.CreateProject(ctx)
	c.SelectProject(ctx, c.Projects[0].ID)

	c.NewTask.Title = "Dishes"
	c.NewTask.Deadline = "next tuesday"
	if err := c.CreateTask(ctx); !errors.Is(err, ErrInvalidDeadline) {
		t.Fatalf("want ErrInvalidDeadline, have %v", err)
	}
	if f.ui.lastAlert() != msgInvalidDeadline {
		t.Errorf("alert: want %q, have %q", msgInvalidDeadline, f.ui.lastAlert())
	}
	c.Refresh(ctx, ScopeProjectDetails)
	if len(c.Tasks) != 0 {
		t.Fatalf("want no task created, have %d", len(c.Tasks))
	}

	c.NewTask.Deadline = "2030-01-02"
	if err := c.CreateTask(ctx); err != nil {
		t.Fatal(err)
	}
	if len(c.Tasks) != 1 {
		t.Fatalf("want 1 task, have %d", len(c.Tasks))
	}
	tk := c.Tasks[0]
	if tk.Status != "Incomplete" || tk.Priority != "Medium" || tk.Deadline.Format("2006-01-02") != "2030-01-02" {
		t.Errorf("unexpected task defaults: %+v", tk)
	}
	if c.NewTask != NewTaskForm() {
		t.Errorf("task form not reset: %+v", c.NewTask)
	}

	if err := c.AddToWatchlist(ctx, tk.ID); err != nil {
		t.Fatal(err)
	}
	if f.ui.lastAlert() != msgWatchAdded {
		t.Errorf("alert: want %q, have %q", msgWatchAdded, f.ui.lastAlert())
	}
	err := c.AddToWatchlist(ctx, tk.ID)
	if !taskdash.IsConflict(err) {
		t.Errorf("want a 409, have %v", err)
	}
	if f.ui.lastAlert() != msgAlreadyWatched {
		t.Errorf("alert: want %q, have %q", msgAlreadyWatched, f.ui.lastAlert())
	}

	w := NewWatchlist(f.client.Watchlist, f.session, f.ui, log.NewNopLogger())
	if err := w.Mount(ctx); err != nil {
		t.Fatal(err)
	}
	if len(w.Entries) != 1 || w.Entries[0].Task == nil || w.Entries[0].Task.Title != "Dishes" {
		t.Fatalf("unexpected watchlist: %+v", w.Entries)
	}

	f.ui.answer = false
	w.Remove(ctx, tk.ID)
	if len(w.Entries) != 1 {
		t.Error("entry removed without confirmation")
	}

	f.ui.answer = true
	if err := w.Remove(ctx, tk.ID); err != nil {
		t.Fatal(err)
	}
	if len(w.Entries) != 0 {
		t.Errorf("want empty watchlist, have %+v", w.Entries)
	}
	if f.ui.lastAlert() != msgUnwatched {
		t.Errorf("alert: want %q, have %q", msgUnwatched, f.ui.lastAlert())
	}

	if err := c.DeleteTask(ctx, tk.ID); err != nil {
		t.Fatal(err)
	}
	if len(c.Tasks) != 0 {
		t.Errorf("want task gone from the details, have %+v", c.Tasks)
	}
}

func TestDeleteSelectedProject(t *testing.T) {
	f := newFixture(t)
	c := f.projects(t)
	ctx := context.Background()

	c.NewProject = ProjectForm{Name: "Home", Description: "chores"}
	c.CreateProject(ctx)
	id := c.Projects[0].ID
	c.SelectProject(ctx, id)

	f.ui.answer = false
	c.DeleteProject(ctx, id)
	if len(c.Projects) != 1 || c.Selected == nil {
		t.Fatal("project deleted without confirmation")
	}

	f.ui.answer = true
	if err := c.DeleteProject(ctx, id); err != nil {
		t.Fatal(err)
	}
	if c.Selected != nil || c.Tasks != nil || c.ShowDetails {
		t.Errorf("selection not cleared: %+v", c.Selected)
	}
	if len(c.Projects) != 0 {
		t.Errorf("want no projects, have %+v", c.Projects)
	}
}

func TestSignOut(t *testing.T) {
	f := newFixture(t)
	c := f.projects(t)

	if err := c.SignOut(); err != nil {
		t.Fatal(err)
	}
	if f.session.IsAuthenticated() {
		t.Error("token still stored")
	}
	if f.ui.lastRoute() != RouteLogin {
		t.Errorf("want %s, have %s", RouteLogin, f.ui.lastRoute())
	}
}

func TestWatchlistMountNotLoggedIn(t *testing.T) {
	ui := &fakeUI{}
	w := NewWatchlist(nil, session.New(nil, log.NewNopLogger()), ui, log.NewNopLogger())

	if err := w.Mount(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("want ErrNotLoggedIn, have %v", err)
	}
	if ui.lastRoute() != RouteLogin {
		t.Errorf("want %s, have %v", RouteLogin, ui.routes)
	}

	store := tokenstore.NewMemoryStore()
	store.Put(session.TokenKey, []byte(apitest.Token(t, 0)))
	ui = &fakeUI{}
	w = NewWatchlist(nil, session.New(store, log.NewNopLogger()), ui, log.NewNopLogger())
	if err := w.Mount(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("zero subject: want ErrNotLoggedIn, have %v", err)
	}
}

func TestCurrentUser(t *testing.T) {
	for _, tc := range []struct {
		sub  interface{}
		want bool
	}{
		{1, true},
		{"u-1", true},
		{0, false},
		{"", false},
		{0.0, false},
	} {
		store := tokenstore.NewMemoryStore()
		store.Put(session.TokenKey, []byte(apitest.Token(t, tc.sub)))
		if _, ok := CurrentUser(session.New(store, log.NewNopLogger())); ok != tc.want {
			t.Errorf("sub %#v: want %v, have %v", tc.sub, tc.want, ok)
		}
	}
}
