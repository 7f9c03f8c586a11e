// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package execute applies an ordered sequence of rename operations against
// the filesystem, or previews them under dry-run. Operations run strictly
// sequentially: the order produced upstream is what makes chains and
// staged cycles safe.
package execute

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/edrn/pkg/plan"
	"github.com/walteh/edrn/pkg/renameerr"
)

// 📢 Reporter receives per-step feedback as operations run, so the user
// sees progress before a mid-batch failure, not after.
type Reporter interface {
	Applied(op plan.Operation)
	Previewed(op plan.Operation)
}

// 🔧 Options is the execution policy.
type Options struct {
	// Force permits overwriting a destination that exists at execution
	// time.
	Force bool
	// DryRun previews every operation without touching the filesystem.
	DryRun bool
}

// 📊 Result reports what a run did. Operations lists every operation
// applied (or previewed) in execution order; after a mid-batch failure it
// holds exactly the steps that completed, which is the caller's only
// record for manual cleanup — there is no rollback.
type Result struct {
	Changed    int
	Operations plan.Plan
}

// 🏃 Executor applies operation sequences through a FileSystem.
type Executor struct {
	fs       FileSystem
	reporter Reporter
}

// 🏭 New creates an executor. reporter may be nil.
func New(fs FileSystem, reporter Reporter) *Executor {
	return &Executor{fs: fs, reporter: reporter}
}

// ▶️ Execute runs ops in order. Under dry-run it records each operation
// and changes nothing; dry-run is idempotent.
//
// Live, each step re-checks its destination: a destination that appeared
// since analysis with force disabled halts the run with DestinationExists,
// leaving earlier steps applied. OS rename failures halt the run the same
// way. The partial Result is returned alongside the error.
func (e *Executor) Execute(ctx context.Context, ops plan.Plan, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	result := &Result{}

	for _, op := range ops {
		if opts.DryRun {
			result.Operations = append(result.Operations, op)
			if e.reporter != nil {
				e.reporter.Previewed(op)
			}
			continue
		}

		// Analysis checked destinations against a snapshot of the disk;
		// re-check against live state. Destinations vacated by earlier
		// steps of this run are gone by now, so a hit here is a real
		// conflict, not a not-yet-executed chain member.
		exists, err := e.fs.Exists(ctx, op.Destination)
		if err != nil {
			return result, err
		}
		if exists && !opts.Force {
			return result, &renameerr.DestinationExistsError{Destination: op.Destination}
		}

		if err := e.fs.Rename(ctx, op.Source, op.Destination); err != nil {
			return result, &renameerr.RenameFailedError{
				Source:      op.Source,
				Destination: op.Destination,
				Err:         err,
			}
		}

		logger.Debug().
			Str("source", op.Source).
			Str("destination", op.Destination).
			Msg("renamed")

		result.Changed++
		result.Operations = append(result.Operations, op)
		if e.reporter != nil {
			e.reporter.Applied(op)
		}
	}

	return result, nil
}
