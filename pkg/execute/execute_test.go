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

package execute_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/edrn/pkg/execute"
	"github.com/walteh/edrn/pkg/plan"
	"github.com/walteh/edrn/pkg/renameerr"
	"gitlab.com/tozd/go/errors"
)

// 🧪 memFS simulates a filesystem namespace in memory
type memFS struct {
	existing map[string]bool
	failOn   map[string]error // source path -> rename error
	renames  plan.Plan
}

func newMemFS(paths ...string) *memFS {
	fs := &memFS{existing: make(map[string]bool), failOn: make(map[string]error)}
	for _, p := range paths {
		fs.existing[p] = true
	}
	return fs
}

func (f *memFS) Rename(ctx context.Context, src, dst string) error {
	if err, ok := f.failOn[src]; ok {
		return err
	}
	delete(f.existing, src)
	f.existing[dst] = true
	f.renames = append(f.renames, plan.Operation{Source: src, Destination: dst})
	return nil
}

func (f *memFS) Exists(ctx context.Context, path string) (bool, error) {
	return f.existing[path], nil
}

// 🧪 recorder captures reporter callbacks
type recorder struct {
	applied   plan.Plan
	previewed []plan.Operation
}

func (r *recorder) Applied(op plan.Operation)   { r.applied = append(r.applied, op) }
func (r *recorder) Previewed(op plan.Operation) { r.previewed = append(r.previewed, op) }

// 🧪 testContext creates a context with a test logger
func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 TestExecuteAppliesInOrder tests sequential application and counting
func TestExecuteAppliesInOrder(t *testing.T) {
	fs := newMemFS("a.txt", "b.txt")
	rec := &recorder{}
	ops := plan.Plan{
		{Source: "a.txt", Destination: "x.txt"},
		{Source: "b.txt", Destination: "y.txt"},
	}

	result, err := execute.New(fs, rec).Execute(testContext(t), ops, execute.Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Changed)
	assert.Equal(t, ops, result.Operations)
	assert.Equal(t, ops, fs.renames)
	assert.Equal(t, ops, rec.applied)
	assert.Empty(t, rec.previewed)
}

// 🧪 TestExecuteDryRun tests that previews touch nothing and repeat
// identically
func TestExecuteDryRun(t *testing.T) {
	fs := newMemFS("a.txt")
	rec := &recorder{}
	ops := plan.Plan{{Source: "a.txt", Destination: "b.txt"}}
	executor := execute.New(fs, rec)

	first, err := executor.Execute(testContext(t), ops, execute.Options{DryRun: true})
	require.NoError(t, err)
	second, err := executor.Execute(testContext(t), ops, execute.Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 0, first.Changed)
	assert.Equal(t, first.Operations, second.Operations)
	assert.Empty(t, fs.renames)
	assert.True(t, fs.existing["a.txt"])
	assert.Len(t, rec.previewed, 2)
	assert.Empty(t, rec.applied)
}

// 🧪 TestExecuteHaltsOnCollision tests the mid-run destination re-check
func TestExecuteHaltsOnCollision(t *testing.T) {
	// y.txt appeared after analysis; the second step must halt the run
	// with the first step kept.
	fs := newMemFS("a.txt", "b.txt", "y.txt")
	ops := plan.Plan{
		{Source: "a.txt", Destination: "x.txt"},
		{Source: "b.txt", Destination: "y.txt"},
		{Source: "x.txt", Destination: "z.txt"},
	}

	result, err := execute.New(fs, nil).Execute(testContext(t), ops, execute.Options{})
	require.Error(t, err)

	var exists *renameerr.DestinationExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, "y.txt", exists.Destination)

	assert.Equal(t, 1, result.Changed)
	assert.Equal(t, plan.Plan{{Source: "a.txt", Destination: "x.txt"}}, result.Operations)
	assert.True(t, fs.existing["b.txt"], "halt must leave later sources untouched")
}

// 🧪 TestExecuteForceOverwrites tests the force policy at execution time
func TestExecuteForceOverwrites(t *testing.T) {
	fs := newMemFS("a.txt", "b.txt")
	ops := plan.Plan{{Source: "a.txt", Destination: "b.txt"}}

	result, err := execute.New(fs, nil).Execute(testContext(t), ops, execute.Options{Force: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Changed)
	assert.False(t, fs.existing["a.txt"])
	assert.True(t, fs.existing["b.txt"])
}

// 🧪 TestExecuteRenameFailure tests OS-level failure wrapping
func TestExecuteRenameFailure(t *testing.T) {
	fs := newMemFS("a.txt", "b.txt")
	fs.failOn["b.txt"] = errors.New("permission denied")
	ops := plan.Plan{
		{Source: "a.txt", Destination: "x.txt"},
		{Source: "b.txt", Destination: "y.txt"},
	}

	result, err := execute.New(fs, nil).Execute(testContext(t), ops, execute.Options{})
	require.Error(t, err)

	var failed *renameerr.RenameFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "b.txt", failed.Source)
	assert.Equal(t, "y.txt", failed.Destination)

	assert.Equal(t, 1, result.Changed)
}

// 🧪 TestOSFileSystem tests the real-filesystem implementation
func TestOSFileSystem(t *testing.T) {
	fs := execute.OSFileSystem()
	ctx := testContext(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	exists, err := fs.Exists(ctx, src)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = fs.Exists(ctx, dst)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, fs.Rename(ctx, src, dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))

	_, err = os.Lstat(src)
	assert.True(t, os.IsNotExist(err))
}

// 🧪 TestOSFileSystemDanglingSymlink tests that a broken symlink still
// occupies its name
func TestOSFileSystemDanglingSymlink(t *testing.T) {
	fs := execute.OSFileSystem()
	ctx := testContext(t)
	dir := t.TempDir()

	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), link))

	exists, err := fs.Exists(ctx, link)
	require.NoError(t, err)
	assert.True(t, exists)
}
