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

// Package resolve breaks cyclic rename components into two conflict-free
// phases: stage every cyclic source out to a unique temporary name, then
// stage every temporary name in to its intended destination.
//
// All temporary names for all cyclic components are generated and verified
// against the plan and the live filesystem before a single staging
// operation is emitted. TempNameExhausted can therefore only happen while
// the plan is still pure data; no run ever strands a half-staged file
// because of name exhaustion.
package resolve

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/edrn/pkg/conflict"
	"github.com/walteh/edrn/pkg/plan"
	"github.com/walteh/edrn/pkg/renameerr"
	"gitlab.com/tozd/go/errors"
)

// How many counter-suffixed candidates to try per source before falling
// back to random tokens, and how many random rounds after that.
const (
	counterAttempts = 100
	randomAttempts  = 3
)

// 🔍 PathChecker is the slice of the filesystem the resolver needs:
// whether a candidate temporary name is already taken on disk.
type PathChecker interface {
	Exists(ctx context.Context, path string) (bool, error)
}

// 🔧 Options controls temporary name generation.
type Options struct {
	// Token is embedded in every temporary name so stranded files from a
	// killed process are recognizable. Defaults to "edrn".
	Token string
}

// 🪜 Resolution is a staged plan ready for sequential execution. Order is
// load-bearing: Direct and Chains first, then every StageOut, then every
// StageIn. Within StageOut (and within StageIn) the operations are
// mutually independent.
type Resolution struct {
	Direct   plan.Plan
	Chains   []plan.Plan
	StageOut plan.Plan
	StageIn  plan.Plan
}

// Flatten returns the final execution order.
func (r *Resolution) Flatten() plan.Plan {
	out := make(plan.Plan, 0, len(r.Direct)+len(r.StageOut)*2)
	out = append(out, r.Direct...)
	for _, chain := range r.Chains {
		out = append(out, chain...)
	}
	out = append(out, r.StageOut...)
	out = append(out, r.StageIn...)
	return out
}

// 🏗️ Resolve rewrites the cyclic components of a into staged phases. The
// non-cyclic parts of the analysis pass through untouched.
func Resolve(ctx context.Context, a *conflict.Analysis, fs PathChecker, opts Options) (*Resolution, error) {
	logger := zerolog.Ctx(ctx)

	token := opts.Token
	if token == "" {
		token = "edrn"
	}

	res := &Resolution{Direct: a.Direct, Chains: a.Chains}
	if !a.HasCycles() {
		return res, nil
	}

	// Every path the batch touches is off-limits for temporary names, as
	// is every temporary name handed out earlier in this run.
	reserved := make(map[string]struct{})
	reserve := func(p plan.Plan) {
		for _, op := range p {
			reserved[op.Source] = struct{}{}
			reserved[op.Destination] = struct{}{}
		}
	}
	reserve(a.Direct)
	for _, chain := range a.Chains {
		reserve(chain)
	}
	for _, cycle := range a.Cycles {
		reserve(cycle)
	}

	for _, cycle := range a.Cycles {
		for _, op := range cycle {
			tmp, err := tempName(ctx, op.Source, token, reserved, fs)
			if err != nil {
				return nil, err
			}
			reserved[tmp] = struct{}{}
			res.StageOut = append(res.StageOut, plan.Operation{Source: op.Source, Destination: tmp})
			res.StageIn = append(res.StageIn, plan.Operation{Source: tmp, Destination: op.Destination})
		}
	}

	logger.Debug().
		Int("cycles", len(a.Cycles)).
		Int("staged", len(res.StageOut)).
		Msg("staged cyclic renames through temporary names")

	return res, nil
}

// 🏷️ tempName finds a sibling path of source that collides with nothing in
// the batch and nothing on disk. Staying in the source's directory keeps
// staging renames on the same filesystem as the final rename.
//
// The check against the live filesystem happens here, at generation time;
// no lock is held between check and use, a narrow window that is accepted.
func tempName(ctx context.Context, source, token string, reserved map[string]struct{}, fs PathChecker) (string, error) {
	dir := filepath.Dir(source)
	base := filepath.Base(source)

	free := func(candidate string) (bool, error) {
		if _, taken := reserved[candidate]; taken {
			return false, nil
		}
		exists, err := fs.Exists(ctx, candidate)
		if err != nil {
			return false, errors.Errorf("checking temporary name %s: %w", candidate, err)
		}
		return !exists, nil
	}

	for n := 0; n < counterAttempts; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf(".%s.%s-%d", base, token, n))
		ok, err := free(candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
	}

	// Counter space is crowded; retry with a longer random token.
	for n := 0; n < randomAttempts; n++ {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			return "", errors.Errorf("generating random token: %w", err)
		}
		candidate := filepath.Join(dir, fmt.Sprintf(".%s.%s-%s", base, token, hex.EncodeToString(buf)))
		ok, err := free(candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
	}

	return "", &renameerr.TempNameExhaustedError{Source: source}
}
