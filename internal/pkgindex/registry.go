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

// Package pkgindex loads the installed-package registry (packages.toml),
// locates packages on disk, and builds a path→package lookup used for
// dependency inference during validation (spec.md §4.D).
package pkgindex

import (
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/acacialinux/tooling/internal/errs"
)

// Entry is one row of packages.toml: the identity triple used to derive
// an installed package's on-disk root.
type Entry struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Arch    string `toml:"arch"`
}

// Registry is the parsed packages.toml plus the dist_dir it is relative to.
type Registry struct {
	Entries []Entry `toml:"package"`
	DistDir string  `toml:"-"`
}

// Load reads a packages.toml file.
func Load(path, distDir string) (*Registry, error) {
	var reg Registry
	if _, err := toml.DecodeFile(path, &reg); err != nil {
		return nil, errs.New(errs.KindInvalidInput, "pkgindex", map[string]string{"path": path}, err)
	}
	reg.DistDir = distDir
	return &reg, nil
}

// Root returns the on-disk root directory for an entry:
// <dist_dir>/<arch>/<name>/<version>/ (spec.md §4.D).
func (r *Registry) Root(e Entry) string {
	return filepath.Join(r.DistDir, e.Arch, e.Name, e.Version)
}

// PackageTOMLPath returns the path to an entry's package.toml metadata file.
func (r *Registry) PackageTOMLPath(e Entry) string {
	return filepath.Join(r.Root(e), "package.toml")
}

// Find returns the registry entry for the given name and arch, if present.
func (r *Registry) Find(name, arch string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Name == name && e.Arch == arch {
			return e, true
		}
	}
	return Entry{}, false
}
