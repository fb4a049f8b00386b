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

	"github.com/BurntSushi/toml"

	"github.com/acacialinux/tooling/internal/errs"
	"github.com/acacialinux/tooling/internal/pkgindex"
	"github.com/acacialinux/tooling/internal/validate"
)

// BuildMetadata assembles the package.toml contents for one packaged
// build (spec.md §4.H step 1). The returned Metadata's OID is left empty:
// the Package object's own identifier is only known after ingestion, and
// Package assigns it before writing package.toml. warning is carried through
// unchanged onto Metadata.Warning; pass "" for an ordinary build that
// validated cleanly.
func BuildMetadata(name, version, description, arch, maintainer, buildID, warning string, extraDeps []string, deps []validate.Dependency) *pkgindex.Metadata {
	links := make([]pkgindex.DependencyLink, 0, len(deps))
	for _, d := range deps {
		var oidHex string
		if d.Package.Metadata != nil {
			oidHex = d.Package.Metadata.OID
		}
		links = append(links, pkgindex.DependencyLink{OID: oidHex, Path: d.Path})
	}

	return &pkgindex.Metadata{
		Name:              name,
		Version:           version,
		Description:       description,
		Architecture:      arch,
		Maintainer:        maintainer,
		BuildID:           buildID,
		Warning:           warning,
		Dependencies:      links,
		ExtraDependencies: extraDeps,
	}
}

// WriteMetadata serializes meta as package.toml via the external TOML
// serializer (BurntSushi/toml), the same library the teacher used for
// formula.toml (spec.md §4.H: "Format is TOML; external serializer").
func WriteMetadata(path string, meta *pkgindex.Metadata) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.New(errs.KindIoError, "packager", map[string]string{"path": path}, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(meta); err != nil {
		return errs.New(errs.KindIoError, "packager", map[string]string{"path": path}, err)
	}
	return nil
}
