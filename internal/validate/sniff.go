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
	"bufio"
	"os"
)

// FileKind is the result of content-sniffing one inventory entry.
type FileKind int

const (
	KindUnclassified FileKind = iota
	KindELF
	KindScript
)

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// Sniff classifies a file by its leading bytes: the ELF magic, a "#!"
// shebang, or neither (spec.md §4.G: "Each file is classified by content
// sniffing").
func Sniff(path string) (FileKind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnclassified, err
	}
	defer f.Close()

	head := make([]byte, 4)
	n, err := bufio.NewReader(f).Read(head)
	if err != nil && n == 0 {
		return KindUnclassified, nil
	}
	head = head[:n]

	if n >= 4 && string(head[:4]) == string(elfMagic) {
		return KindELF, nil
	}
	if n >= 2 && head[0] == '#' && head[1] == '!' {
		return KindScript, nil
	}
	return KindUnclassified, nil
}
