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

// CanonicalDistDir is the dist_dir baked into every link/<soname> symlink
// target (spec.md §4.H step 2: "The dist_dir used here is fixed at builder
// compile time and not configurable at runtime"). A package built on one
// machine must produce byte-identical link targets to the same package
// built anywhere else, so this must never be taken from a CLI flag or
// environment variable; it names the path packages are expected to be
// installed under at runtime, independent of where this particular build
// happened to stage its own output.
//
// Override only via -ldflags "-X .../packager.CanonicalDistDir=..." at
// build time, never at runtime.
var CanonicalDistDir = "/var/lib/acacia/dist"
