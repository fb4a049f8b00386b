/*******************************************************************************
*
* Copyright 2026 Acacia Linux contributors
*
* This file is part of Acacia Build.
*
* Acacia Build is free software: you can redistribute it and/or modify it
* under the terms of the GNU General Public License as published by the Free
* Software Foundation, either version 3 of the License, or (at your option)
* any later version.
*
* Acacia Build is distributed in the hope that it will be useful, but WITHOUT
* ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
* FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for
* more details.
*
* You should have received a copy of the GNU General Public License along
* with Acacia Build. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

// Package executor drives the prepare/build/check/package stages inside
// the isolated build root, with per-stage overlay stacking (spec.md §4.F).
package executor

import (
	"github.com/acacialinux/tooling/internal/buildenv"
	"github.com/acacialinux/tooling/internal/formula"
	"github.com/acacialinux/tooling/internal/pkgindex"
)

// Context is the Build context named in spec.md §3: a unique build
// identifier, the resolved formula, the chosen target architecture, the
// resolved dependency packages, the build root, and (via Env) the set of
// active mounts.
type Context struct {
	ID           string
	Formula      *formula.Formula
	Arch         string
	HostDeps     []*pkgindex.InstalledPackage
	TargetDeps   []*pkgindex.InstalledPackage
	Env          *buildenv.Environment
	ToolchainDir string

	// Cancel is fired exactly once to request cooperative cancellation of
	// the running stage, per the Design Note (spec.md §9) that replaces a
	// process-wide signal handler with an explicit channel passed into
	// each build context.
	Cancel chan struct{}
}

// NewContext constructs a Context with its cancellation channel ready.
func NewContext(id string, f *formula.Formula, arch string, hostDeps, targetDeps []*pkgindex.InstalledPackage, env *buildenv.Environment, toolchainDir string) *Context {
	return &Context{
		ID:           id,
		Formula:      f,
		Arch:         arch,
		HostDeps:     hostDeps,
		TargetDeps:   targetDeps,
		Env:          env,
		ToolchainDir: toolchainDir,
		Cancel:       make(chan struct{}),
	}
}

// DepRoots extracts each resolved package's install root, in order, for
// callers that need to compose overlay lower directories from a dependency
// set (buildenv.Options.DepRoots).
func DepRoots(pkgs []*pkgindex.InstalledPackage) []string {
	roots := make([]string, len(pkgs))
	for i, p := range pkgs {
		roots[i] = p.Root
	}
	return roots
}
