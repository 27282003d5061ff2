/*
wf drives one automated map run: find the temple, clear it, find the map
boss, and fight it to completion.

Usage:

	wf run           Start the run loop in the foreground
	wf toggle        Enable or disable the run loop without restarting it
	wf skip-boss     Skip the temple and go straight to the boss search
	wf reset         Clear persisted settings back to defaults
	wf status        Print the current state and area
	wf watch         Live TUI view of state transitions
	wf sim           Replay a scripted scenario against a fake world

See 'wf help <command>' for more information on a specific command.
*/
package main

import (
	"os"

	"github.com/outrider/wayfinder/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
