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
	"debug/elf"

	"github.com/acacialinux/tooling/internal/errs"
)

// ELFDeps is the set of runtime dependencies an ELF file names: the
// dynamic loader interpreter (if any) and each DT_NEEDED soname.
type ELFDeps struct {
	Interpreter string
	Needed      []string
}

// ReadELFDeps opens path as an ELF file and reads its PT_INTERP segment
// and DT_NEEDED dynamic entries (spec.md §4.G: "read dynamic section; for
// each NEEDED and the interpreter, locate the providing package").
func ReadELFDeps(path string) (ELFDeps, error) {
	f, err := elf.Open(path)
	if err != nil {
		return ELFDeps{}, errs.New(errs.KindValidationFailed, "validate", map[string]string{"path": path}, err)
	}
	defer f.Close()

	var deps ELFDeps

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_INTERP {
			continue
		}
		data := make([]byte, prog.Filesz)
		if _, err := prog.ReadAt(data, 0); err != nil {
			return ELFDeps{}, errs.New(errs.KindValidationFailed, "validate", map[string]string{"path": path}, err)
		}
		deps.Interpreter = trimNulTerminated(data)
	}

	// a missing dynamic section means the binary is statically linked,
	// not an error; Needed is simply left empty.
	if needed, err := f.DynString(elf.DT_NEEDED); err == nil {
		deps.Needed = needed
	}

	return deps, nil
}

func trimNulTerminated(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
