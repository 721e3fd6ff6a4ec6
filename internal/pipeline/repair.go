package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/brandforge/golden-circle/internal/common"
	"github.com/brandforge/golden-circle/internal/llm"
)

// State names a position in the validation/repair loop.
type State string

const (
	StatePending    State = "PENDING"
	StateExtracting State = "EXTRACTING"
	StateValidating State = "VALIDATING"
	StateRetrying   State = "RETRYING"
	StateValid      State = "VALID"
	StateExhausted  State = "EXHAUSTED"
)

// repairLoop drives one extraction through validation and bounded corrective
// re-prompts. It is created per request and discarded when the loop exits.
type repairLoop struct {
	extractor  *Extractor
	maxRepairs int
	logger     *slog.Logger

	state       State
	repairs     int    // corrective requests issued so far
	calls       int    // total generation requests issued
	lastFailure string // most recent validation failure reason
}

func newRepairLoop(extractor *Extractor, maxRepairs int, logger *slog.Logger) *repairLoop {
	if logger == nil {
		logger = slog.Default()
	}
	return &repairLoop{
		extractor:  extractor,
		maxRepairs: maxRepairs,
		logger:     logger,
		state:      StatePending,
	}
}

// run executes the state machine: Pending → (Extracting → Validating) →
// {Valid, Retrying → Extracting, Exhausted}. A valid result on any attempt
// returns immediately; ModelUnavailable aborts without consuming repairs.
func (l *repairLoop) run(ctx context.Context, req Request) (llm.GoldenCircle, error) {
	feedback := ""
	for {
		l.state = StateExtracting
		l.calls++
		attempt := req
		attempt.RepairFeedback = feedback

		candidate, err := l.extractor.ExtractOnce(ctx, attempt)

		l.state = StateValidating
		if err != nil {
			if common.KindOf(err) != common.KindMalformedResponse {
				return llm.GoldenCircle{}, err
			}
			l.lastFailure = common.MessageOf(err)
		} else {
			gc, reason, ok := llm.ValidateCandidate(candidate)
			if ok {
				l.state = StateValid
				l.logger.Info("repair.valid", "calls", l.calls, "repairs", l.repairs)
				return gc, nil
			}
			l.lastFailure = reason
		}

		l.logger.Warn("repair.invalid_candidate",
			"reason", l.lastFailure,
			"repairs_used", l.repairs,
			"max_repairs", l.maxRepairs,
		)

		if err := ctx.Err(); err != nil {
			return llm.GoldenCircle{}, common.NewPipelineError(common.KindModelUnavailable, "request canceled", err)
		}
		if l.repairs >= l.maxRepairs {
			l.state = StateExhausted
			l.logger.Error("repair.exhausted", "calls", l.calls, "last_failure", l.lastFailure)
			return llm.GoldenCircle{}, &common.PipelineError{
				Kind:    common.KindExtractionExhausted,
				Message: fmt.Sprintf("no valid result after %d repair attempts: %s", l.repairs, l.lastFailure),
				Cause:   errors.New(l.lastFailure),
			}
		}

		l.state = StateRetrying
		l.repairs++
		feedback = l.lastFailure
		l.logger.Info("repair.retrying", "attempt", l.repairs, "feedback", feedback)
	}
}
