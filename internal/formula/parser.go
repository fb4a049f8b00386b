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

package formula

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/acacialinux/tooling/internal/errs"
)

// Load reads and validates a formula.toml file, in the teacher's
// validate-while-parsing style (src/holo-build/parser.go).
func Load(path string) (*Formula, []error) {
	var f Formula
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, []error{errs.New(errs.KindInvalidInput, "formula", map[string]string{"path": path}, err)}
	}
	f.BaseDir = filepath.Dir(path)

	for name, sub := range f.Packages {
		sub.Name = name
	}

	issues := &FormulaIssues{}
	validate(&f, issues)
	if len(issues.Issues) > 0 {
		return nil, issues.Issues
	}
	return &f, nil
}

func validate(f *Formula, issues *FormulaIssues) {
	if f.Name == "" {
		issues.Recordf("formula is missing a \"name\" attribute")
	}
	if f.Version == "" {
		issues.Recordf("formula is missing a \"version\" attribute")
	}
	if len(f.Arch) == 0 {
		issues.Recordf("formula %q declares no supported architectures", f.Name)
	}

	for idx, src := range f.Sources {
		validateSource(f.Name, idx, src, issues)
	}
}

func validateSource(formulaName string, idx int, src SourceSpec, issues *FormulaIssues) {
	if src.URL == "" {
		issues.Recordf("source %d of %q is missing a \"url\" attribute", idx, formulaName)
	}
	if filepath.IsAbs(src.Dest) {
		issues.Recordf("source %d of %q has an absolute \"dest\" (%q); dest must be formula-relative", idx, formulaName, src.Dest)
		return
	}
	if escapesBase(src.Dest) {
		issues.Recordf("source %d of %q has a \"dest\" that escapes the formula directory (%q)", idx, formulaName, src.Dest)
	}
}

// escapesBase reports whether a relative path, once cleaned, still
// contains a leading "..", i.e. it would climb above its base directory.
func escapesBase(rel string) bool {
	clean := filepath.Clean(rel)
	return clean == ".." || strings.HasPrefix(clean, "../")
}

// SupportsArch reports whether the formula declares support for arch, or
// for "any".
func (f *Formula) SupportsArch(arch string) bool {
	for _, a := range f.Arch {
		if a == arch || a == "any" {
			return true
		}
	}
	return false
}

// ExpandSourceURL substitutes $PKG_NAME/$PKG_VERSION/$PKG_ARCH into a
// source URL template, per spec.md §4.F.
func ExpandSourceURL(url, name, version, arch string) string {
	r := strings.NewReplacer(
		"$PKG_NAME", name,
		"$PKG_VERSION", version,
		"$PKG_ARCH", arch,
	)
	return r.Replace(url)
}

// ValidateSourceDest re-checks a source destination lexically at build
// time, refusing absolute paths and relative paths that climb above their
// base with InvalidSourceDest (modeled as errs.KindInvalidInput) per
// spec.md §4.F.
func ValidateSourceDest(dest string) error {
	if filepath.IsAbs(dest) {
		return errs.New(errs.KindInvalidInput, "formula", map[string]string{"dest": dest}, fmt.Errorf("source dest must be relative"))
	}
	if escapesBase(dest) {
		return errs.New(errs.KindInvalidInput, "formula", map[string]string{"dest": dest}, fmt.Errorf("source dest escapes its root"))
	}
	return nil
}
