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

// Package editor writes the path listing to a temporary file, opens it in
// the user's editor, and reads the edited listing back.
package editor

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Command resolves the editor command to run: the explicit value if
// given, else $EDITOR, else vi.
func Command(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// ✏️ Edit runs one editing session: listing goes into an edrn-*.txt temp
// file, command opens it (split on whitespace, so "code -w" works), and
// the file's resulting lines come back trimmed. A non-zero editor exit
// aborts the session.
func Edit(ctx context.Context, command string, listing []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	file, err := os.CreateTemp("", "edrn-*.txt")
	if err != nil {
		return nil, errors.Errorf("creating listing file: %w", err)
	}
	defer os.Remove(file.Name())

	if _, err := file.WriteString(strings.Join(listing, "\n") + "\n"); err != nil {
		file.Close()
		return nil, errors.Errorf("writing listing file: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, errors.Errorf("closing listing file: %w", err)
	}

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, errors.New("empty editor command")
	}
	args := append(parts[1:], file.Name())

	logger.Debug().Str("editor", command).Str("listing", file.Name()).Msg("launching editor")

	cmd := exec.CommandContext(ctx, parts[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Errorf("editor %q: %w", command, err)
	}

	edited, err := os.ReadFile(file.Name())
	if err != nil {
		return nil, errors.Errorf("reading edited listing: %w", err)
	}

	return splitListing(string(edited)), nil
}

// splitListing mirrors how the listing was written: surrounding blank
// lines are editor artifacts, interior blank lines are the user's (and the
// plan builder rejects them).
func splitListing(content string) []string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil
	}
	lines := strings.Split(trimmed, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
