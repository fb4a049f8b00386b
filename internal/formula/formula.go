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

// Package formula implements the in-memory Formula model and formula.toml
// parsing (spec.md §3, §4.D's formula.toml half, §6).
package formula

// SourceSpec describes one source to fetch before the prepare stage.
// Dest is formula-relative and must stay relative (spec.md §3); Extract
// defaults to true.
type SourceSpec struct {
	URL     string `toml:"url"`
	Dest    string `toml:"dest"`
	Extract *bool  `toml:"extract"`
}

// ExtractOrDefault returns the effective Extract value, defaulting to true
// when unset.
func (s SourceSpec) ExtractOrDefault() bool {
	if s.Extract == nil {
		return true
	}
	return *s.Extract
}

// SubPackage is a `[packages.<name>]` table; any field left unset inherits
// the parent Formula's value, recorded in Inherited by field name (Design
// Note in spec.md §9: "tagged merge with an explicit 'which fields were
// inherited' record").
type SubPackage struct {
	Name                string   `toml:"-"`
	Description         *string  `toml:"description"`
	Arch                []string `toml:"arch"`
	HostDependencies    []string `toml:"host_dependencies"`
	TargetDependencies  []string `toml:"target_dependencies"`
	ExtraDependencies   []string `toml:"extra_dependencies"`
	PrepareCmd          *string  `toml:"prepare"`
	BuildCmd            *string  `toml:"build"`
	CheckCmd            *string  `toml:"check"`
	PackageCmd          *string  `toml:"package"`
}

// Formula is the fully parsed in-memory form of one formula.toml.
type Formula struct {
	FileVersion int    `toml:"file_version"`
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
	Arch        []string `toml:"arch"`

	HostDependencies   []string `toml:"host_dependencies"`
	TargetDependencies []string `toml:"target_dependencies"`
	ExtraDependencies  []string `toml:"extra_dependencies"`

	Sources []SourceSpec `toml:"sources"`

	PrepareCmd *string `toml:"prepare"`
	BuildCmd   *string `toml:"build"`
	CheckCmd   *string `toml:"check"`
	PackageCmd *string `toml:"package"`

	Packages map[string]*SubPackage `toml:"packages"`

	// BaseDir is the directory the formula file lives in, used to resolve
	// formula-relative source destinations. Not part of the TOML schema.
	BaseDir string `toml:"-"`
}

// ResolvedPackage is one concrete sub-package after inheritance merge,
// with a record of which fields came from the parent rather than an
// explicit override.
type ResolvedPackage struct {
	Name                string
	Description         string
	Arch                []string
	HostDependencies    []string
	TargetDependencies  []string
	ExtraDependencies   []string
	PrepareCmd          string
	BuildCmd            string
	CheckCmd            string
	PackageCmd          string
	Inherited           map[string]bool
}

// ResolvePackages returns the concrete list of packages to build for this
// formula: if Packages is non-empty, the implicit single-package behavior
// is disabled and each entry is merged against the parent; otherwise one
// implicit package matching the formula itself is synthesized (spec.md
// §4.F "Multi-package handling").
func (f *Formula) ResolvePackages() []ResolvedPackage {
	if len(f.Packages) == 0 {
		return []ResolvedPackage{{
			Name:               f.Name,
			Description:        f.Description,
			Arch:               f.Arch,
			HostDependencies:   f.HostDependencies,
			TargetDependencies: f.TargetDependencies,
			ExtraDependencies:  f.ExtraDependencies,
			PrepareCmd:         derefStr(f.PrepareCmd),
			BuildCmd:           derefStr(f.BuildCmd),
			CheckCmd:           derefStr(f.CheckCmd),
			PackageCmd:         derefStr(f.PackageCmd),
			Inherited:          map[string]bool{},
		}}
	}

	out := make([]ResolvedPackage, 0, len(f.Packages))
	for name, sub := range f.Packages {
		inherited := map[string]bool{}
		rp := ResolvedPackage{Name: name, Inherited: inherited}

		if sub.Description != nil {
			rp.Description = *sub.Description
		} else {
			rp.Description = f.Description
			inherited["description"] = true
		}

		if len(sub.Arch) > 0 {
			rp.Arch = sub.Arch
		} else {
			rp.Arch = f.Arch
			inherited["arch"] = true
		}

		if len(sub.HostDependencies) > 0 {
			rp.HostDependencies = sub.HostDependencies
		} else {
			rp.HostDependencies = f.HostDependencies
			inherited["host_dependencies"] = true
		}

		if len(sub.TargetDependencies) > 0 {
			rp.TargetDependencies = sub.TargetDependencies
		} else {
			rp.TargetDependencies = f.TargetDependencies
			inherited["target_dependencies"] = true
		}

		// extra_dependencies always unions with the parent's, per spec.md §4.F.
		rp.ExtraDependencies = unionStrings(f.ExtraDependencies, sub.ExtraDependencies)

		if sub.PrepareCmd != nil {
			rp.PrepareCmd = *sub.PrepareCmd
		} else {
			rp.PrepareCmd = derefStr(f.PrepareCmd)
			inherited["prepare"] = true
		}
		if sub.BuildCmd != nil {
			rp.BuildCmd = *sub.BuildCmd
		} else {
			rp.BuildCmd = derefStr(f.BuildCmd)
			inherited["build"] = true
		}
		if sub.CheckCmd != nil {
			rp.CheckCmd = *sub.CheckCmd
		} else {
			rp.CheckCmd = derefStr(f.CheckCmd)
			inherited["check"] = true
		}
		if sub.PackageCmd != nil {
			rp.PackageCmd = *sub.PackageCmd
		} else {
			rp.PackageCmd = derefStr(f.PackageCmd)
			inherited["package"] = true
		}

		out = append(out, rp)
	}
	return out
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
