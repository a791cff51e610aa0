// Package dataselect is the programmatic entry point to a dataselect run,
// generalizing iamNilotpal-ignite's pkg/ignite.Instance: where ignite.go
// wraps internal/engine's key/value store engine behind Set/Get/Delete,
// Instance here wraps the same package's reconciliation Engine behind a
// single Run, for callers (the CLI, or any Go program) that already have
// Options and a resolved input file list.
package dataselect

import (
	"go.uber.org/zap"

	"github.com/iamNilotpal/dataselect/internal/engine"
	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/pkg/options"
)

// Instance wraps one configured, not-yet-run Engine.
type Instance struct {
	engine *engine.Engine
}

// NewInstance validates opts and inputs and builds an Instance ready to
// Run. inputs must be non-empty, already resolved from @listfile
// indirection and file@start:end byte-range suffixes.
func NewInstance(opts options.Options, log *zap.SugaredLogger, inputs []*model.FileRef) (*Instance, error) {
	eng, err := engine.New(&engine.Config{Options: opts, Logger: log, Inputs: inputs})
	if err != nil {
		return nil, err
	}
	return &Instance{engine: eng}, nil
}

// Run executes the full pipeline once: ingest, coverage analysis,
// pruning, reconciliation, and writing, returning a Report of what was
// read and emitted. Not safe to call twice on the same Instance.
func (i *Instance) Run() (engine.Report, error) {
	return i.engine.Run()
}
