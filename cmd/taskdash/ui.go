package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ichigozero/taskdash/view"
)

// terminalUI prints alerts, asks y/N questions and turns navigation into a
// hint naming the command that shows the target page.
type terminalUI struct {
	in  *bufio.Reader
	out io.Writer

	// assumeYes answers every confirmation without asking.
	assumeYes bool

	// alerted is set once any alert has been shown.
	alerted bool
}

func newTerminalUI(in io.Reader, out io.Writer) *terminalUI {
	return &terminalUI{in: bufio.NewReader(in), out: out}
}

func (u *terminalUI) Alert(message string) {
	u.alerted = true
	fmt.Fprintln(u.out, message)
}

func (u *terminalUI) Confirm(message string) bool {
	if u.assumeYes {
		return true
	}
	fmt.Fprintf(u.out, "%s [y/N] ", message)
	answer, _ := u.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

var routeCommands = map[view.Route]string{
	view.RouteRegister:  "taskdash register",
	view.RouteLogin:     "taskdash login",
	view.RouteProjects:  "taskdash projects list",
	view.RouteWatchlist: "taskdash watchlist list",
}

func (u *terminalUI) Navigate(to view.Route) {
	if c, ok := routeCommands[to]; ok {
		fmt.Fprintf(u.out, "next: %s\n", c)
	}
}

// Prompt reads one line, printing label first.
func (u *terminalUI) Prompt(label string) string {
	fmt.Fprintf(u.out, "%s: ", label)
	line, _ := u.in.ReadString('\n')
	return strings.TrimSpace(line)
}
