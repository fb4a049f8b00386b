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

package pkgindex

import (
	"os"
	"path/filepath"
)

// Ambiguity records a path claimed by more than one installed package;
// the most-recently-parsed package wins mechanically (spec.md §4.D), but
// the ambiguity is still surfaced for diagnostics.
type Ambiguity struct {
	Path      string
	Winner    string
	Shadowed  []string
}

// FileMap is the derived path→package lookup used by the validator
// (component G) to infer which installed package provides a given file.
type FileMap struct {
	byPath     map[string]*InstalledPackage
	Ambiguities []Ambiguity
}

// BuildFileMap walks every package's Root directory
// (<dist_dir>/<arch>/<name>/<version>/) itself, producing a map keyed by
// paths relative to Root; no root/ subdirectory is singled out, so any
// such subdirectory appears as a "root/" prefix on its paths. Symlinks
// are followed; cycles are broken by tracking
// visited (device, inode) pairs. Duplicate paths across packages are
// permitted; the most recently parsed package wins, recorded as an
// Ambiguity.
func BuildFileMap(packages []*InstalledPackage) (*FileMap, error) {
	fm := &FileMap{byPath: make(map[string]*InstalledPackage)}
	shadowedBy := map[string][]string{}

	for _, pkg := range packages {
		visited := map[inodeKey]bool{}
		err := walkPackage(pkg.Root, pkg.Root, visited, func(relPath string) {
			if existing, ok := fm.byPath[relPath]; ok && existing.Entry.Name != pkg.Entry.Name {
				shadowedBy[relPath] = append(shadowedBy[relPath], existing.Entry.Name)
			}
			fm.byPath[relPath] = pkg
		})
		if err != nil {
			return nil, err
		}
	}

	for path, shadowed := range shadowedBy {
		fm.Ambiguities = append(fm.Ambiguities, Ambiguity{
			Path:     path,
			Winner:   fm.byPath[path].Entry.Name,
			Shadowed: shadowed,
		})
	}

	return fm, nil
}

// Lookup returns the package that provides a given file path (relative to
// a package root, e.g. "lib/libc.so.6"), if any.
func (fm *FileMap) Lookup(path string) (*InstalledPackage, bool) {
	pkg, ok := fm.byPath[path]
	return pkg, ok
}

type inodeKey struct {
	dev, ino uint64
}

func walkPackage(root, dir string, visited map[inodeKey]bool, visit func(relPath string)) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())

		info, err := os.Stat(full) // follows symlinks
		if err != nil {
			// a dangling symlink is not an error for the purposes of this
			// walk; it simply contributes no further entries.
			continue
		}

		key, ok := inodeKeyOf(info)
		if ok {
			if visited[key] {
				continue
			}
			visited[key] = true
		}

		if info.IsDir() {
			if err := walkPackage(root, full, visited, visit); err != nil {
				return err
			}
			continue
		}

		rel, err := filepath.Rel(root, full)
		if err != nil {
			return err
		}
		visit(rel)
	}

	return nil
}
