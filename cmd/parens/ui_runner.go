package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"parens/internal/driver"
	"parens/internal/source"
	"parens/internal/ui"
)

type dirOutcome struct {
	fileSet *source.FileSet
	results []driver.DirResult
	err     error
}

// runDirWithUI evaluates dir while a progress model renders driver events.
func runDirWithUI(ctx context.Context, title, dir string, files []string, opts driver.Options) (*source.FileSet, []driver.DirResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.RunDir(ctx, dir, optsCopy)
		outcomeCh <- dirOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// если модель вышла раньше (ctrl+c), дочитываем события, чтобы драйвер не встал
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
