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

// Package renameerr defines the typed errors produced by the rename
// pipeline. Every error that can stop a run is one of these kinds, so the
// CLI layer can match with errors.As and render a precise message plus an
// exit code without string matching.
package renameerr

import (
	"fmt"
	"strings"
)

// 📋 MalformedPlanError reports an edited listing that cannot be paired
// with the original listing: the line count changed, an entry is empty,
// or the same source appears twice.
type MalformedPlanError struct {
	Reason string
}

func (e *MalformedPlanError) Error() string {
	return fmt.Sprintf("malformed plan: %s", e.Reason)
}

// 🎯 DuplicateDestinationError reports two or more sources mapped to the
// same destination. No ordering or staging can resolve it.
type DuplicateDestinationError struct {
	Destination string
	Sources     []string
}

func (e *DuplicateDestinationError) Error() string {
	return fmt.Sprintf("duplicate destination %q for sources: %s",
		e.Destination, strings.Join(e.Sources, ", "))
}

// 💥 DestinationExistsError reports a destination that already exists on
// disk, is not vacated by the plan, and force is disabled.
type DestinationExistsError struct {
	Destination string
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("destination already exists: %s, use --force to overwrite", e.Destination)
}

// 📁 MissingDirectoryError reports destinations whose parent directory
// does not exist on disk. A rename cannot create directories, so these
// steps could only fail; they are rejected before anything moves.
type MissingDirectoryError struct {
	Destinations []string
}

func (e *MissingDirectoryError) Error() string {
	return fmt.Sprintf("found destination(s) with invalid directory(ies): %s",
		strings.Join(e.Destinations, ", "))
}

// 🔄 UnresolvableConflictError reports a chain or cycle of renames found
// while resolution is disabled. Paths lists the members of the conflicting
// component in dependency order.
type UnresolvableConflictError struct {
	Paths []string
}

func (e *UnresolvableConflictError) Error() string {
	return fmt.Sprintf("conflicting renames (%s), use --resolve to stage them through temporary names",
		strings.Join(e.Paths, " -> "))
}

// 🏷️ TempNameExhaustedError reports that no free temporary name could be
// found for a source after bounded retries.
type TempNameExhaustedError struct {
	Source string
}

func (e *TempNameExhaustedError) Error() string {
	return fmt.Sprintf("could not generate a free temporary name for %s", e.Source)
}

// 🚨 RenameFailedError wraps an OS-level rename failure (permissions,
// cross-device, path too long). The run halts at this step.
type RenameFailedError struct {
	Source      string
	Destination string
	Err         error
}

func (e *RenameFailedError) Error() string {
	return fmt.Sprintf("renaming %s -> %s: %v", e.Source, e.Destination, e.Err)
}

func (e *RenameFailedError) Unwrap() error {
	return e.Err
}
