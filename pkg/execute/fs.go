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

package execute

import (
	"context"
	"os"

	"gitlab.com/tozd/go/errors"
)

// 💾 FileSystem is the slice of the filesystem the executor touches. The
// analyzer and resolver share its Exists half, so one OS value serves the
// whole pipeline and one fake serves every test.
type FileSystem interface {
	// Rename moves src to dst, replacing dst if it exists.
	Rename(ctx context.Context, src, dst string) error
	// Exists reports whether path exists. Symlinks count even when broken.
	Exists(ctx context.Context, path string) (bool, error)
}

// 🏭 OSFileSystem returns the real-filesystem implementation.
func OSFileSystem() FileSystem {
	return osFS{}
}

type osFS struct{}

func (osFS) Rename(ctx context.Context, src, dst string) error {
	return os.Rename(src, dst)
}

func (osFS) Exists(ctx context.Context, path string) (bool, error) {
	// Lstat, not Stat: a dangling symlink still occupies its name.
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("stat %s: %w", path, err)
}
