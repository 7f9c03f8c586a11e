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

// Package plan pairs the original path listing with the edited listing
// into a sequence of rename operations.
package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/edrn/pkg/renameerr"
)

// 🎯 Operation is a single source -> destination rename request. Operations
// are immutable once built; later stages produce new sequences rather than
// mutating existing ones.
type Operation struct {
	Source      string
	Destination string
}

// String renders the operation the way it is shown to the user.
func (op Operation) String() string {
	return fmt.Sprintf("%s -> %s", op.Source, op.Destination)
}

// 📋 Plan is the ordered set of Operations derived from one editing
// session. Order carries no correctness meaning, only deterministic
// reporting.
type Plan []Operation

// Sources returns the source path of every operation, in plan order.
func (p Plan) Sources() []string {
	out := make([]string, len(p))
	for i, op := range p {
		out[i] = op.Source
	}
	return out
}

// Destinations returns the destination path of every operation, in plan
// order.
func (p Plan) Destinations() []string {
	out := make([]string, len(p))
	for i, op := range p {
		out[i] = op.Destination
	}
	return out
}

// 🏗️ Build pairs originals with edited positionally and keeps every entry
// whose edited path differs from its original. It is a pure transform: no
// filesystem access happens here.
//
// It fails with a MalformedPlanError when the listings differ in length
// (the user added or removed lines in the editor), when an edited entry is
// blank (deleting a line is not deleting a file), or when a source path is
// listed twice (positional correspondence would be ambiguous). It fails
// with a DuplicateDestinationError when two edited entries name the same
// path, unchanged entries included.
func Build(ctx context.Context, originals, edited []string) (Plan, error) {
	logger := zerolog.Ctx(ctx)

	if len(originals) != len(edited) {
		return nil, &renameerr.MalformedPlanError{
			Reason: fmt.Sprintf("number of paths changed, should be %d, got %d", len(originals), len(edited)),
		}
	}

	seen := make(map[string]struct{}, len(originals))
	for _, src := range originals {
		if _, ok := seen[src]; ok {
			return nil, &renameerr.MalformedPlanError{
				Reason: fmt.Sprintf("path listed more than once: %s", src),
			}
		}
		seen[src] = struct{}{}
	}

	for i, dst := range edited {
		if strings.TrimSpace(dst) == "" {
			return nil, &renameerr.MalformedPlanError{
				Reason: fmt.Sprintf("entry %d is empty", i+1),
			}
		}
	}

	// Duplicates are checked over the full edited listing, before unchanged
	// entries are dropped. An unchanged line still claims its path: when
	// another line targets the same path the batch would overwrite a file
	// that was never meant to move.
	counts := make(map[string]int, len(edited))
	for _, dst := range edited {
		counts[dst]++
	}
	for _, dst := range edited {
		if counts[dst] > 1 {
			var srcs []string
			for i, d := range edited {
				if d == dst {
					srcs = append(srcs, originals[i])
				}
			}
			return nil, &renameerr.DuplicateDestinationError{
				Destination: dst,
				Sources:     srcs,
			}
		}
	}

	var p Plan
	for i, dst := range edited {
		if dst == originals[i] {
			continue
		}
		p = append(p, Operation{Source: originals[i], Destination: dst})
	}

	logger.Debug().
		Int("listed", len(originals)).
		Int("operations", len(p)).
		Msg("built rename plan")

	return p, nil
}
