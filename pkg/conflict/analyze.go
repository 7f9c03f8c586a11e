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

// Package conflict classifies a rename plan before anything touches the
// filesystem: duplicate destinations, collisions with existing files,
// chains that are safe once ordered, and cycles that need staging.
package conflict

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/edrn/pkg/plan"
	"github.com/walteh/edrn/pkg/renameerr"
	"gitlab.com/tozd/go/errors"
)

// 🔍 PathChecker is the slice of the filesystem the analyzer needs:
// whether a path currently exists.
type PathChecker interface {
	Exists(ctx context.Context, path string) (bool, error)
}

// 🔧 Options controls which conflicts are fatal.
type Options struct {
	// Force permits destinations that already exist on disk (they will be
	// overwritten at execution time).
	Force bool
	// Resolve permits chains (resolved by ordering) and cycles (resolved
	// by temporary staging). With Resolve off, any dependency between
	// operations is fatal.
	Resolve bool
}

// 📊 Analysis is the classification of a plan. Direct operations have no
// dependency on each other and keep plan order. Each chain is already in
// safe execution order: the chain's outlet first, so every operation runs
// after its destination has been vacated. Cycles cannot be ordered and
// need the resolver.
type Analysis struct {
	Direct plan.Plan
	Chains []plan.Plan
	Cycles []plan.Plan
}

// HasCycles reports whether any operations need temporary staging.
func (a *Analysis) HasCycles() bool {
	return len(a.Cycles) > 0
}

// Ordered flattens the direct operations and ordered chains. Cycles are
// not included; they have no valid order until staged.
func (a *Analysis) Ordered() plan.Plan {
	out := make(plan.Plan, 0, len(a.Direct))
	out = append(out, a.Direct...)
	for _, chain := range a.Chains {
		out = append(out, chain...)
	}
	return out
}

// 🔬 Analyze builds the conflict graph for p and classifies it. All checks
// here run before any mutation, so every error from Analyze leaves the
// filesystem untouched.
func Analyze(ctx context.Context, p plan.Plan, fs PathChecker, opts Options) (*Analysis, error) {
	logger := zerolog.Ctx(ctx)

	if err := checkDuplicates(p); err != nil {
		return nil, err
	}
	if err := checkCollisions(ctx, p, fs, opts.Force); err != nil {
		return nil, err
	}
	if err := checkParents(ctx, p, fs); err != nil {
		return nil, err
	}

	g := buildGraph(p)
	singletons, paths, cycles := g.components()

	if !opts.Resolve && (len(paths) > 0 || len(cycles) > 0) {
		return nil, unresolvable(paths, cycles)
	}

	// A chain executes from its outlet backward: the last operation in
	// forward dependency order is the only one whose destination is free,
	// and running it frees the next one up the chain.
	chains := make([]plan.Plan, 0, len(paths))
	for _, path := range paths {
		chains = append(chains, reversed(path))
	}

	logger.Debug().
		Int("direct", len(singletons)).
		Int("chains", len(chains)).
		Int("cycles", len(cycles)).
		Msg("classified rename plan")

	return &Analysis{Direct: singletons, Chains: chains, Cycles: cycles}, nil
}

// checkDuplicates fails when two operations share a destination. Reported
// for the destination that appears earliest in the plan.
func checkDuplicates(p plan.Plan) error {
	sources := make(map[string][]string, len(p))
	for _, op := range p {
		sources[op.Destination] = append(sources[op.Destination], op.Source)
	}
	for _, op := range p {
		if srcs := sources[op.Destination]; len(srcs) > 1 {
			return &renameerr.DuplicateDestinationError{
				Destination: op.Destination,
				Sources:     srcs,
			}
		}
	}
	return nil
}

// checkCollisions fails when a destination already exists on disk and the
// plan itself does not move it out of the way, unless force is enabled.
func checkCollisions(ctx context.Context, p plan.Plan, fs PathChecker, force bool) error {
	vacated := make(map[string]struct{}, len(p))
	for _, op := range p {
		vacated[op.Source] = struct{}{}
	}
	for _, op := range p {
		if _, ok := vacated[op.Destination]; ok {
			continue
		}
		exists, err := fs.Exists(ctx, op.Destination)
		if err != nil {
			return errors.Errorf("checking destination %s: %w", op.Destination, err)
		}
		if exists && !force {
			return &renameerr.DestinationExistsError{Destination: op.Destination}
		}
	}
	return nil
}

// checkParents fails when a destination's parent directory does not
// exist. A rename cannot create directories, so such an operation could
// only fail after earlier renames have already been applied.
func checkParents(ctx context.Context, p plan.Plan, fs PathChecker) error {
	var missing []string
	checked := make(map[string]bool)
	for _, op := range p {
		dir := filepath.Dir(op.Destination)
		if dir == "." {
			continue
		}
		exists, ok := checked[dir]
		if !ok {
			var err error
			exists, err = fs.Exists(ctx, dir)
			if err != nil {
				return errors.Errorf("checking directory %s: %w", dir, err)
			}
			checked[dir] = exists
		}
		if !exists {
			missing = append(missing, op.Destination)
		}
	}
	if len(missing) > 0 {
		return &renameerr.MissingDirectoryError{Destinations: missing}
	}
	return nil
}

// unresolvable reports the first conflicting component, members in
// dependency order. Cycles repeat their first member at the end so the
// loop is visible in the message.
func unresolvable(paths, cycles []plan.Plan) error {
	if len(paths) > 0 {
		chain := paths[0]
		members := chain.Sources()
		members = append(members, chain[len(chain)-1].Destination)
		return &renameerr.UnresolvableConflictError{Paths: members}
	}
	cycle := cycles[0]
	members := cycle.Sources()
	members = append(members, cycle[0].Source)
	return &renameerr.UnresolvableConflictError{Paths: members}
}

func reversed(p plan.Plan) plan.Plan {
	out := make(plan.Plan, len(p))
	for i, op := range p {
		out[len(p)-1-i] = op
	}
	return out
}
