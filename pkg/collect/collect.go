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

// Package collect turns CLI arguments into the ordered source-path listing
// the rename pipeline starts from.
package collect

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// How many stat calls to run at once when validating existence.
const statConcurrency = 16

// 🔍 Paths expands args into the ordered, de-duplicated source listing.
// Arguments containing glob metacharacters are expanded with doublestar
// (`**` supported) and their matches sorted; literal arguments keep their
// position. Every resulting path must exist; missing ones are reported
// together so the user fixes the whole invocation in one round.
func Paths(ctx context.Context, args []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	var paths []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	for _, arg := range args {
		if !isPattern(arg) {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, errors.Errorf("expanding pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("pattern %q matched no paths", arg)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	if err := checkExist(ctx, paths); err != nil {
		return nil, err
	}

	logger.Debug().Int("paths", len(paths)).Msg("collected source paths")
	return paths, nil
}

// checkExist stats every path, fanning out since the checks are
// independent and read-only. The rename pipeline itself stays sequential.
func checkExist(ctx context.Context, paths []string) error {
	missing := make([]bool, len(paths))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(statConcurrency)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if _, err := os.Lstat(p); err != nil {
				if os.IsNotExist(err) {
					missing[i] = true
					return nil
				}
				return errors.Errorf("stat %s: %w", p, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var absent []string
	for i, p := range paths {
		if missing[i] {
			absent = append(absent, p)
		}
	}
	if len(absent) > 0 {
		return errors.Errorf("found path(s) that do not exist: %s", strings.Join(absent, ", "))
	}
	return nil
}

func isPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}
