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

package packager

import (
	"os"
	"path/filepath"

	"github.com/acacialinux/tooling/internal/errs"
	"github.com/acacialinux/tooling/internal/validate"
)

// BuildLinkDir populates linkDir with one symlink per resolved runtime
// dependency: link/<soname-or-p> → <dist_dir>/<arch>/<P.name>/<P.version>/<p>
// (spec.md §4.H step 2). distDir is fixed at builder compile time, never
// taken from a runtime flag, per the same section.
func BuildLinkDir(linkDir, distDir string, deps []validate.Dependency) error {
	if err := os.MkdirAll(linkDir, 0755); err != nil {
		return errs.New(errs.KindIoError, "packager", map[string]string{"path": linkDir}, err)
	}

	for _, dep := range deps {
		target := filepath.Join(distDir, dep.Package.Entry.Arch, dep.Package.Entry.Name, dep.Package.Entry.Version, dep.Path)
		linkName := filepath.Base(dep.Path)
		if dep.Soname != "" {
			linkName = dep.Soname
		}
		linkPath := filepath.Join(linkDir, linkName)

		_ = os.Remove(linkPath) // re-packaging overwrites a stale link
		if err := os.Symlink(target, linkPath); err != nil {
			return errs.New(errs.KindIoError, "packager", map[string]string{"path": linkPath}, err)
		}
	}
	return nil
}
