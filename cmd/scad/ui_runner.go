package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"scad/internal/driver"
	"scad/internal/ui"
)

type checkOutcome struct {
	result *driver.DirResult
	err    error
}

// runCheckDirWithUI renders the live progress model while CheckDir runs
// in the background. Worker events flow through a buffered channel that
// the checker goroutine closes when it finishes.
func runCheckDirWithUI(ctx context.Context, title, dir string, opts driver.Options) (*driver.DirResult, error) {
	files, err := driver.ListFiles(dir, opts.Include)
	if err != nil {
		return nil, err
	}

	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = func(ev driver.ProgressEvent) { events <- ev }
		res, err := driver.CheckDir(ctx, dir, runOpts)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()

	// Keep draining so workers never block if the UI exited early.
	go func() {
		for range events {
		}
	}()

	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
