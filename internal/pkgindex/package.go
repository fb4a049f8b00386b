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
	"github.com/BurntSushi/toml"

	"github.com/acacialinux/tooling/internal/errs"
)

// DependencyLink mirrors an object.Link in TOML form for package.toml
// serialization (spec.md §6: "dependency links (list of {oid, path})").
type DependencyLink struct {
	OID  string `toml:"oid"`
	Path string `toml:"path"`
}

// Metadata is the parsed form of one installed package's package.toml.
type Metadata struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
	// OID is this package's own Package-object identifier (class 01:30),
	// recorded at packaging time so a dependent package can reference it
	// without re-ingesting and re-hashing this package's contents.
	OID          string `toml:"oid"`
	Architecture string `toml:"architecture"`
	Maintainer   string `toml:"maintainer"`
	BuildID      string `toml:"build_id"`
	// Warning annotates a package.toml written despite a validation failure
	// (spec.md §7: "Validation errors abort patch emission but still
	// produce package.toml with a warning annotation"). Empty on an
	// ordinary, fully-validated build.
	Warning           string           `toml:"warning,omitempty"`
	Dependencies      []DependencyLink `toml:"dependencies"`
	ExtraDependencies []string         `toml:"extra_dependencies"`
}

// LoadMetadata reads one package's package.toml.
func LoadMetadata(path string) (*Metadata, error) {
	var m Metadata
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, errs.New(errs.KindInvalidInput, "pkgindex", map[string]string{"path": path}, err)
	}
	return &m, nil
}

// InstalledPackage couples a registry Entry with its on-disk metadata and
// root. It holds no file index of its own; BuildFileMap builds the
// path→package lookup across a set of InstalledPackages.
type InstalledPackage struct {
	Entry    Entry
	Metadata *Metadata
	Root     string
}

// LoadInstalledPackages resolves every registry entry's package.toml into
// an InstalledPackage.
func LoadInstalledPackages(reg *Registry) ([]*InstalledPackage, error) {
	out := make([]*InstalledPackage, 0, len(reg.Entries))
	for _, e := range reg.Entries {
		meta, err := LoadMetadata(reg.PackageTOMLPath(e))
		if err != nil {
			return nil, err
		}
		out = append(out, &InstalledPackage{
			Entry:    e,
			Metadata: meta,
			Root:     reg.Root(e),
		})
	}
	return out, nil
}
