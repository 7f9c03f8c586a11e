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

package plan_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/edrn/pkg/plan"
	"github.com/walteh/edrn/pkg/renameerr"
)

// 🧪 testContext creates a context with a test logger
func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 TestBuild tests plan construction
func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		originals []string
		edited    []string
		want      plan.Plan
	}{
		{
			name:      "all_renamed",
			originals: []string{"a.txt", "b.txt"},
			edited:    []string{"c.txt", "d.txt"},
			want: plan.Plan{
				{Source: "a.txt", Destination: "c.txt"},
				{Source: "b.txt", Destination: "d.txt"},
			},
		},
		{
			name:      "no_ops_filtered",
			originals: []string{"a.txt", "b.txt", "c.txt"},
			edited:    []string{"a.txt", "x.txt", "c.txt"},
			want: plan.Plan{
				{Source: "b.txt", Destination: "x.txt"},
			},
		},
		{
			name:      "all_unchanged",
			originals: []string{"a.txt", "b.txt"},
			edited:    []string{"a.txt", "b.txt"},
			want:      nil,
		},
		{
			name:      "empty_listing",
			originals: nil,
			edited:    nil,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := plan.Build(testContext(t), tt.originals, tt.edited)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// 🧪 TestBuildErrors tests malformed listings
func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name      string
		originals []string
		edited    []string
	}{
		{
			name:      "line_removed",
			originals: []string{"a.txt", "b.txt"},
			edited:    []string{"a.txt"},
		},
		{
			name:      "line_added",
			originals: []string{"a.txt"},
			edited:    []string{"a.txt", "b.txt"},
		},
		{
			name:      "empty_entry",
			originals: []string{"a.txt", "b.txt"},
			edited:    []string{"c.txt", ""},
		},
		{
			name:      "whitespace_entry",
			originals: []string{"a.txt"},
			edited:    []string{"   "},
		},
		{
			name:      "duplicate_source",
			originals: []string{"a.txt", "a.txt"},
			edited:    []string{"b.txt", "c.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plan.Build(testContext(t), tt.originals, tt.edited)
			require.Error(t, err)

			var malformed *renameerr.MalformedPlanError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

// 🧪 TestBuildDuplicateDestination tests that duplicates in the edited
// listing are fatal, including when one of the entries is unchanged
func TestBuildDuplicateDestination(t *testing.T) {
	tests := []struct {
		name        string
		originals   []string
		edited      []string
		destination string
		sources     []string
	}{
		{
			name:        "both_renamed",
			originals:   []string{"a.txt", "b.txt"},
			edited:      []string{"c.txt", "c.txt"},
			destination: "c.txt",
			sources:     []string{"a.txt", "b.txt"},
		},
		{
			name:        "shadowed_by_unchanged_entry",
			originals:   []string{"a.txt", "b.txt"},
			edited:      []string{"a.txt", "a.txt"},
			destination: "a.txt",
			sources:     []string{"a.txt", "b.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plan.Build(testContext(t), tt.originals, tt.edited)
			require.Error(t, err)

			var dup *renameerr.DuplicateDestinationError
			require.ErrorAs(t, err, &dup)
			assert.Equal(t, tt.destination, dup.Destination)
			assert.Equal(t, tt.sources, dup.Sources)
		})
	}
}

// 🧪 TestPlanAccessors tests Sources and Destinations ordering
func TestPlanAccessors(t *testing.T) {
	p := plan.Plan{
		{Source: "a", Destination: "b"},
		{Source: "c", Destination: "d"},
	}

	assert.Equal(t, []string{"a", "c"}, p.Sources())
	assert.Equal(t, []string{"b", "d"}, p.Destinations())
	assert.Equal(t, "a -> b", p[0].String())
}
