package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ymx/internal/formatter"
	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
	"github.com/desertthunder/ymx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// transferSummary is what a finished or interrupted like transfer produced.
type transferSummary struct {
	Result     *tasks.TransferResult
	Outcome    *models.TransferOutcome
	ReportPath string
	Run        *models.TransferRun
}

// TransferLikes likes every Yandex Music liked track on YouTube Music, oldest first.
//
// The report and the run record are written even when the run is interrupted.
func (r *Runner) TransferLikes(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	r.writePlain("Transferring liked tracks from Yandex Music to YouTube Music...\n\n")

	progress, stop := r.showProgress()
	summary, err := r.transferLikes(ctx, cmd.String("output"), format, progress)
	stop()

	if summary != nil {
		r.printTransferSummary(summary)
	}
	return err
}

// transferLikes runs the transfer, then writes the report and records the run.
func (r *Runner) transferLikes(ctx context.Context, output string, format formatter.Format, progress chan<- tasks.ProgressUpdate) (*transferSummary, error) {
	if err := r.requireYandex(); err != nil {
		return nil, err
	}
	if err := r.requireYouTube(); err != nil {
		return nil, err
	}

	result, runErr := r.engine.TransferLikes(ctx, progress)
	if result == nil {
		return nil, runErr
	}

	outcome := result.Outcome
	if outcome == nil {
		outcome = pendingOutcome(result)
	}

	if output == "" {
		output = r.config.Library.ReportPath
	}
	path, err := formatter.WriteTransferReport(outcome, output, format)
	if err != nil {
		return nil, errors.Join(runErr, err)
	}
	r.logger.Info("report written", "path", path)

	summary := &transferSummary{Result: result, Outcome: outcome, ReportPath: path}
	summary.Run = r.recordRun(result, outcome, path)
	return summary, runErr
}

// pendingOutcome marks every exported track pending when the run stopped before importing.
func pendingOutcome(result *tasks.TransferResult) *models.TransferOutcome {
	outcome := &models.TransferOutcome{}
	if result.Export == nil {
		return outcome
	}
	for _, tr := range tasks.OldestFirst(result.Export.Tracks) {
		outcome.Add(models.ItemResult{Track: tr, Status: models.StatusPending})
	}
	return outcome
}

// recordRun stores the run in the history database. Failures are logged, not returned.
func (r *Runner) recordRun(result *tasks.TransferResult, outcome *models.TransferOutcome, reportPath string) *models.TransferRun {
	logger := shared.WithLogger(r.logger, "report", reportPath)

	repo, err := r.runRepository()
	if err != nil {
		logger.Warn("run history unavailable", "error", err)
		return nil
	}

	finished := result.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	run := models.NewTransferRun(0, result.StartedAt)
	run.Finish(outcome, finished)
	run.SetReportPath(reportPath)

	if err := repo.Create(run); err != nil {
		logger.Warn("failed to record run", "error", err)
		return nil
	}
	logger.Debug("run recorded", "id", run.ID(), "sequence", run.Sequence())
	return run
}

func (r *Runner) printTransferSummary(s *transferSummary) {
	o := s.Outcome

	r.writePlain("\n")
	if o.Complete() {
		r.writePlainHeader("Transfer Complete!")
	} else {
		r.writePlainHeader("Transfer Interrupted")
	}

	if s.Result.Export != nil {
		r.writePlain("Liked on Yandex Music: %d (%d could not be resolved)\n",
			len(s.Result.Export.Tracks)+len(s.Result.Export.Failures), len(s.Result.Export.Failures))
	}
	r.writePlain("Imported:  %d\n", len(o.Imported))
	r.writePlain("Not found: %d\n", len(o.NotFound))
	r.writePlain("Errors:    %d\n", len(o.Errored))
	if !o.Complete() {
		r.writePlain("Pending:   %d\n", len(o.Pending))
	}

	if len(o.NotFound) > 0 {
		r.writePlainln("Not found on YouTube Music:")
		for _, tr := range o.NotFound {
			r.writePlain("  - %s\n", tr.String())
		}
	}

	weak := 0
	for _, res := range o.Results {
		if res.Status == models.StatusImported && res.Confidence < tasks.WeakMatchThreshold {
			weak++
		}
	}
	if weak > 0 {
		r.writePlain("\n%d imported tracks were weak matches; check the report.\n", weak)
	}

	r.writePlain("\nReport: %s\n", s.ReportPath)
	if s.Run != nil {
		r.writePlain("Run: #%d (%s)\n", s.Run.Sequence(), s.Run.ID())
	}
}

// transferText renders a short summary for the interactive menu.
func transferText(s *transferSummary) string {
	o := s.Outcome
	text := fmt.Sprintf("Imported %d, not found %d, errors %d", len(o.Imported), len(o.NotFound), len(o.Errored))
	if !o.Complete() {
		text += fmt.Sprintf(", pending %d", len(o.Pending))
	}
	return fmt.Sprintf("%s\nReport: %s", text, s.ReportPath)
}
