package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/urfave/cli/v3"
)

// runView is the JSON shape of a recorded run.
type runView struct {
	ID         string     `json:"id"`
	Sequence   int        `json:"sequence"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	ReportPath string     `json:"report_path"`
	Imported   int        `json:"imported"`
	NotFound   int        `json:"not_found"`
	Errored    int        `json:"errored"`
	Pending    int        `json:"pending"`
}

func newRunView(run *models.TransferRun) runView {
	return runView{
		ID:         run.ID(),
		Sequence:   run.Sequence(),
		StartedAt:  run.StartedAt(),
		FinishedAt: run.FinishedAt(),
		ReportPath: run.ReportPath(),
		Imported:   run.Imported(),
		NotFound:   run.NotFound(),
		Errored:    run.Errored(),
		Pending:    run.Pending(),
	}
}

// HistoryList prints recorded transfer runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.runRepository()
	if err != nil {
		return err
	}

	runs, err := repo.List(map[string]any{"limit": int(cmd.Int("limit"))})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]runView, len(runs))
		for i, run := range runs {
			views[i] = newRunView(run)
		}
		return r.writeJSON(views, true)
	}

	if len(runs) == 0 {
		r.writePlain("No transfer runs recorded yet\n")
		return nil
	}

	for _, run := range runs {
		status := "finished"
		if run.Pending() > 0 {
			status = "interrupted"
		}
		r.writePlain("#%d  %s  %s  imported %d, not found %d, errors %d, pending %d  [%s]\n",
			run.Sequence(),
			run.StartedAt().Local().Format(time.DateTime),
			status,
			run.Imported(), run.NotFound(), run.Errored(), run.Pending(),
			run.ID(),
		)
	}
	return nil
}

// HistoryShow prints one run with its tracks. The run is named by id, "#N" or N.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	ref := strings.TrimSpace(cmd.StringArg("run"))
	if ref == "" {
		return fmt.Errorf("%w: run id or sequence number", shared.ErrMissingArgument)
	}

	status := models.ItemStatus(cmd.String("status"))
	switch status {
	case "", models.StatusImported, models.StatusNotFound, models.StatusErrored, models.StatusPending:
	default:
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidArgument, status)
	}

	repo, err := r.runRepository()
	if err != nil {
		return err
	}

	var run *models.TransferRun
	if seq, convErr := strconv.Atoi(strings.TrimPrefix(ref, "#")); convErr == nil {
		run, err = repo.GetBySequence(seq)
	} else {
		run, err = repo.Get(ref)
	}
	if err != nil {
		return err
	}

	tracks := run.Tracks()
	if status != "" {
		if tracks, err = repo.Tracks(run.ID(), status); err != nil {
			return err
		}
	}

	r.writePlainHeader(fmt.Sprintf("Run #%d", run.Sequence()))
	r.writePlain("ID:       %s\n", run.ID())
	r.writePlain("Started:  %s\n", run.StartedAt().Local().Format(time.DateTime))
	if f := run.FinishedAt(); f != nil {
		r.writePlain("Finished: %s (%s)\n", f.Local().Format(time.DateTime), f.Sub(run.StartedAt()).Round(time.Second))
	}
	r.writePlain("Report:   %s\n", run.ReportPath())
	r.writePlain("Imported %d, not found %d, errors %d, pending %d\n\n",
		run.Imported(), run.NotFound(), run.Errored(), run.Pending())

	for _, tr := range tracks {
		r.writePlain("%4d. %-9s %s", tr.Position+1, tr.Status, tr.Track.String())
		if tr.VideoID != "" {
			r.writePlain(" [%s]", tr.VideoID)
		}
		if tr.Error != "" {
			r.writePlain(" (%s)", tr.Error)
		}
		r.writePlain("\n")
	}
	return nil
}
