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

package validate

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/acacialinux/tooling/internal/pkgindex"
)

// Resolver looks up which installed package provides a given file path,
// the role component D's FileMap plays here (spec.md §4.G).
type Resolver interface {
	Lookup(path string) (*pkgindex.InstalledPackage, bool)
}

var _ Resolver = (*pkgindex.FileMap)(nil)

// libDirs are the conventional directories a soname or interpreter path
// is searched under when it isn't already package-root-relative.
var libDirs = []string{"lib", "usr/lib", "lib64", "usr/lib64"}

// Dependency records one resolved runtime dependency discovered during
// validation, consumed by the packager to build package.toml and link/.
type Dependency struct {
	Package *pkgindex.InstalledPackage
	Path    string // the path relative to Package.Root, used to build link/<soname-or-p>
	Soname  string
}

// Report is the full result of validating one package's data directory.
type Report struct {
	Actions      []Action
	Dependencies []Dependency
}

// Validate walks dataDir, classifies each file, and infers its
// dependencies via resolver, in the order named by spec.md §4.G.
//
// On a validation failure (a file that sniffs as ELF but cannot be
// decoded) Validate still returns the partial Report accumulated up to
// that point, alongside the error: spec.md §7 requires that such an error
// "abort patch emission but still produce package.toml with a warning
// annotation," which means the caller needs a Report to build that
// package.toml from even though Validate did not finish. Actions recorded
// in a partial Report must not be emitted as patch commands; only
// Dependencies should be trusted by a caller handling the error path.
func Validate(dataDir string, resolver Resolver) (*Report, error) {
	report := &Report{}

	files, err := Inventory(dataDir)
	if err != nil {
		return report, err
	}

	seenDeps := map[string]bool{}

	for _, rel := range files {
		full := filepath.Join(dataDir, rel)
		kind, err := Sniff(full)
		if err != nil {
			continue // unreadable file: treat as unclassified rather than fail the whole package
		}

		switch kind {
		case KindELF:
			deps, err := ReadELFDeps(full)
			if err != nil {
				sortDependencies(report)
				return report, err
			}
			validateELF(rel, deps, resolver, report, seenDeps)
		case KindScript:
			interp, err := ReadShebang(full)
			if err != nil || interp == "" {
				continue
			}
			validateScript(rel, interp, resolver, report, seenDeps)
		}
	}

	sortDependencies(report)
	return report, nil
}

func sortDependencies(report *Report) {
	sort.SliceStable(report.Dependencies, func(i, j int) bool {
		if report.Dependencies[i].Package.Entry.Name != report.Dependencies[j].Package.Entry.Name {
			return report.Dependencies[i].Package.Entry.Name < report.Dependencies[j].Package.Entry.Name
		}
		return report.Dependencies[i].Path < report.Dependencies[j].Path
	})
}

func validateELF(file string, deps ELFDeps, resolver Resolver, report *Report, seenDeps map[string]bool) {
	if deps.Interpreter != "" {
		if pkg, path, ok := resolve(resolver, deps.Interpreter); ok {
			linkPath := linkPathFor(pkg, path)
			report.Actions = append(report.Actions, Action{
				Kind:     ActionSetInterpreter,
				File:     file,
				LinkPath: linkPath,
			})
			recordDependency(report, seenDeps, pkg, path, filepath.Base(path))
		}
	}

	sonames := append([]string{}, deps.Needed...)
	sort.Strings(sonames)
	for _, soname := range sonames {
		if pkg, path, ok := resolve(resolver, soname); ok {
			linkPath := linkPathFor(pkg, path)
			report.Actions = append(report.Actions, Action{
				Kind:     ActionReplaceNeeded,
				File:     file,
				Soname:   soname,
				LinkPath: linkPath,
			})
			recordDependency(report, seenDeps, pkg, path, soname)
		}
	}
}

func validateScript(file, interp string, resolver Resolver, report *Report, seenDeps map[string]bool) {
	pkg, path, ok := resolve(resolver, interp)
	if !ok {
		return
	}
	linkPath := linkPathFor(pkg, path)
	report.Actions = append(report.Actions, Action{
		Kind:     ActionRewriteShebang,
		File:     file,
		LinkPath: linkPath,
	})
	recordDependency(report, seenDeps, pkg, path, filepath.Base(path))
}

// resolve locates the installed package providing soname or an absolute
// interpreter path by trying the file map directly, then each
// conventional library directory (spec.md §4.G: "locate the providing
// package via D's file map").
func resolve(resolver Resolver, name string) (*pkgindex.InstalledPackage, string, bool) {
	candidate := strings.TrimPrefix(name, "/")
	if pkg, ok := resolver.Lookup(candidate); ok {
		return pkg, candidate, true
	}
	base := filepath.Base(name)
	for _, dir := range libDirs {
		candidate = filepath.Join(dir, base)
		if pkg, ok := resolver.Lookup(candidate); ok {
			return pkg, candidate, true
		}
	}
	return nil, "", false
}

func recordDependency(report *Report, seen map[string]bool, pkg *pkgindex.InstalledPackage, path, soname string) {
	key := pkg.Entry.Name + "/" + path
	if seen[key] {
		return
	}
	seen[key] = true
	report.Dependencies = append(report.Dependencies, Dependency{Package: pkg, Path: path, Soname: soname})
}

// linkPathFor builds "<package-root>/link/<soname-or-p>" (spec.md §4.G).
func linkPathFor(pkg *pkgindex.InstalledPackage, path string) string {
	return fmt.Sprintf("%s/link/%s", strings.TrimRight(pkg.Root, "/"), filepath.Base(path))
}
