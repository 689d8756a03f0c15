package report

import (
	"errors"

	"github.com/lox/pokerprobability/internal/simulator"
	"github.com/lox/pokerprobability/internal/statistics"
)

type trialFanout []simulator.TrialSink

// TrialSinks combines sinks into one, skipping nil entries. It returns nil
// when no sinks remain so callers can leave the simulator field unset.
func TrialSinks(sinks ...simulator.TrialSink) simulator.TrialSink {
	var out trialFanout
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

func (f trialFanout) RecordTrial(t simulator.Trial) error {
	for _, s := range f {
		if err := s.RecordTrial(t); err != nil {
			return err
		}
	}
	return nil
}

type progressFanout []simulator.ProgressSink

// ProgressSinks combines sinks into one, skipping nil entries.
func ProgressSinks(sinks ...simulator.ProgressSink) simulator.ProgressSink {
	var out progressFanout
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

func (f progressFanout) OnProgress(p simulator.Progress) {
	for _, s := range f {
		s.OnProgress(p)
	}
}

type summaryFanout []simulator.SummarySink

// SummarySinks combines sinks into one, skipping nil entries. Every sink is
// called even if an earlier one fails; the errors are joined.
func SummarySinks(sinks ...simulator.SummarySink) simulator.SummarySink {
	var out summaryFanout
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

func (f summaryFanout) RecordSummary(s *statistics.Summary) error {
	var errs []error
	for _, sink := range f {
		if err := sink.RecordSummary(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
