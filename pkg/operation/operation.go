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

// Package operation wires the rename pipeline together: plan building,
// conflict analysis, cycle resolution, execution. Analysis and resolution
// are pure; nothing mutates the filesystem until execution starts, so
// every error raised before then is fully recoverable.
package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/edrn/pkg/conflict"
	"github.com/walteh/edrn/pkg/execute"
	"github.com/walteh/edrn/pkg/plan"
	"github.com/walteh/edrn/pkg/resolve"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Renamer runs one complete rename batch.
type Renamer interface {
	// Rename pairs originals with edited, orders the resulting batch
	// safely, and applies it (or previews it under dry-run).
	Rename(ctx context.Context, originals, edited []string) (*execute.Result, error)
}

// 🔧 Options contains configuration for the renamer
type Options struct {
	// FS is the filesystem everything runs against.
	FS execute.FileSystem
	// Reporter receives per-step feedback. Optional.
	Reporter execute.Reporter
	// Force permits overwriting pre-existing destinations.
	Force bool
	// Resolve enables chain ordering and cycle staging.
	Resolve bool
	// DryRun previews without mutating.
	DryRun bool
	// TempToken is embedded in staging names. Defaults to "edrn".
	TempToken string
}

// 🏭 New creates a new renamer with the given options
func New(opts Options) (Renamer, error) {
	if opts.FS == nil {
		return nil, errors.New("filesystem is required")
	}
	return &renamer{opts: opts}, nil
}

// 🎮 renamer implements the Renamer interface
type renamer struct {
	opts Options
}

func (r *renamer) Rename(ctx context.Context, originals, edited []string) (*execute.Result, error) {
	logger := zerolog.Ctx(ctx)

	p, err := plan.Build(ctx, originals, edited)
	if err != nil {
		return nil, errors.Errorf("building plan: %w", err)
	}
	if len(p) == 0 {
		logger.Debug().Msg("nothing to rename")
		return &execute.Result{}, nil
	}

	analysis, err := conflict.Analyze(ctx, p, r.opts.FS, conflict.Options{
		Force:   r.opts.Force,
		Resolve: r.opts.Resolve,
	})
	if err != nil {
		return nil, errors.Errorf("analyzing plan: %w", err)
	}

	resolution, err := resolve.Resolve(ctx, analysis, r.opts.FS, resolve.Options{
		Token: r.opts.TempToken,
	})
	if err != nil {
		return nil, errors.Errorf("resolving conflicts: %w", err)
	}

	executor := execute.New(r.opts.FS, r.opts.Reporter)
	result, err := executor.Execute(ctx, resolution.Flatten(), execute.Options{
		Force:  r.opts.Force,
		DryRun: r.opts.DryRun,
	})
	if err != nil {
		// The partial result still matters: it is the record of which
		// steps completed before the halt.
		return result, err
	}
	return result, nil
}
