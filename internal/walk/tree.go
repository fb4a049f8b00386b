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

package walk

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/acacialinux/tooling/internal/errs"
	"github.com/acacialinux/tooling/internal/object"
)

var treeMagic = [4]byte{'A', 'L', 'T', 'R'}

const treeFormatVersion = 0x00

// EntryKind tags which of the three Tree/Index entry shapes a TreeEntry
// represents, following the teacher's FSEntry.Type-as-int idiom
// (src/holo-build/common/package.go) rather than a Go interface per kind.
type EntryKind int

const (
	EntryFile EntryKind = iota
	EntrySymlink
	EntrySubtree
)

const (
	cmdFile    byte = 0x01
	cmdSymlink byte = 0x02
	cmdSubtree byte = 0x05
)

// TreeEntry is one record of a Tree: a File, Symlink, or Subtree, never a
// recursively-embedded directory (spec.md §3: "Trees never descend").
type TreeEntry struct {
	Kind   EntryKind
	OID    object.OID // set for File and Subtree
	UID    uint32
	GID    uint32
	Mode   uint32
	Name   string
	Target string // set for Symlink
}

// Tree is an ordered, non-recursive filesystem-hierarchy encoding.
// Invariant: names are unique within one Tree (spec.md §3).
type Tree struct {
	Entries []TreeEntry
}

// EncodeTree serializes entries in caller-provided order into the ALTR
// wire format. It refuses duplicate names and escaping names.
func EncodeTree(entries []TreeEntry) ([]byte, error) {
	seen := make(map[string]bool, len(entries))
	var buf bytes.Buffer
	buf.Write(treeMagic[:])
	buf.WriteByte(treeFormatVersion)

	for _, e := range entries {
		if err := validateName(e.Name); err != nil {
			return nil, err
		}
		if seen[e.Name] {
			return nil, errs.New(errs.KindInvalidInput, "walk", map[string]string{"name": e.Name}, fmt.Errorf("duplicate name in tree"))
		}
		seen[e.Name] = true

		switch e.Kind {
		case EntryFile:
			buf.WriteByte(cmdFile)
			buf.Write(e.OID[:])
			writeU32(&buf, e.UID)
			writeU32(&buf, e.GID)
			writeU32(&buf, e.Mode)
			writeU32(&buf, uint32(len(e.Name)))
			buf.WriteString(e.Name)
		case EntrySymlink:
			buf.WriteByte(cmdSymlink)
			writeU32(&buf, e.UID)
			writeU32(&buf, e.GID)
			writeU32(&buf, e.Mode)
			writeU32(&buf, uint32(len(e.Name)))
			writeU32(&buf, uint32(len(e.Target)))
			buf.WriteString(e.Name)
			buf.WriteString(e.Target)
		case EntrySubtree:
			buf.WriteByte(cmdSubtree)
			buf.Write(e.OID[:])
			writeU32(&buf, e.UID)
			writeU32(&buf, e.GID)
			writeU32(&buf, e.Mode)
			writeU32(&buf, uint32(len(e.Name)))
			buf.WriteString(e.Name)
		default:
			return nil, errs.New(errs.KindInvalidInput, "walk", nil, fmt.Errorf("unknown tree entry kind %d", e.Kind))
		}
	}

	return buf.Bytes(), nil
}

// DecodeTree parses an ALTR byte stream. Iteration order equals encoded
// order (spec.md §4.C determinism requirement).
func DecodeTree(data []byte) (*Tree, error) {
	r := bytes.NewReader(data)

	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil || gotMagic != treeMagic {
		return nil, errs.New(errs.KindCorrupt, "walk", nil, fmt.Errorf("bad tree magic"))
	}
	version, err := r.ReadByte()
	if err != nil {
		return nil, errs.New(errs.KindCorrupt, "walk", nil, err)
	}
	if version != treeFormatVersion {
		return nil, errs.New(errs.KindCorrupt, "walk", map[string]string{"version": fmt.Sprintf("%d", version)}, fmt.Errorf("unsupported tree version"))
	}

	seen := make(map[string]bool)
	var entries []TreeEntry
	for {
		cmd, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.New(errs.KindCorrupt, "walk", nil, err)
		}

		var entry TreeEntry
		switch cmd {
		case cmdFile:
			if _, err := io.ReadFull(r, entry.OID[:]); err != nil {
				return nil, errs.New(errs.KindCorrupt, "walk", nil, err)
			}
			entry.Kind = EntryFile
			if err := readFSFields(r, &entry); err != nil {
				return nil, err
			}
		case cmdSymlink:
			entry.Kind = EntrySymlink
			entry.UID, err = readU32e(r)
			if err != nil {
				return nil, err
			}
			entry.GID, err = readU32e(r)
			if err != nil {
				return nil, err
			}
			entry.Mode, err = readU32e(r)
			if err != nil {
				return nil, err
			}
			nameLen, err := readU32e(r)
			if err != nil {
				return nil, err
			}
			targetLen, err := readU32e(r)
			if err != nil {
				return nil, err
			}
			entry.Name, err = readString(r, nameLen)
			if err != nil {
				return nil, err
			}
			entry.Target, err = readString(r, targetLen)
			if err != nil {
				return nil, err
			}
		case cmdSubtree:
			if _, err := io.ReadFull(r, entry.OID[:]); err != nil {
				return nil, errs.New(errs.KindCorrupt, "walk", nil, err)
			}
			entry.Kind = EntrySubtree
			if err := readFSFields(r, &entry); err != nil {
				return nil, err
			}
		default:
			return nil, errs.New(errs.KindCorrupt, "walk", map[string]string{"cmd": fmt.Sprintf("%#x", cmd)}, fmt.Errorf("unknown tree command"))
		}

		if err := validateName(entry.Name); err != nil {
			return nil, err
		}
		if seen[entry.Name] {
			return nil, errs.New(errs.KindCorrupt, "walk", map[string]string{"name": entry.Name}, fmt.Errorf("duplicate name in tree"))
		}
		seen[entry.Name] = true

		entries = append(entries, entry)
	}

	return &Tree{Entries: entries}, nil
}

func readFSFields(r *bytes.Reader, entry *TreeEntry) error {
	var err error
	entry.UID, err = readU32e(r)
	if err != nil {
		return err
	}
	entry.GID, err = readU32e(r)
	if err != nil {
		return err
	}
	entry.Mode, err = readU32e(r)
	if err != nil {
		return err
	}
	nameLen, err := readU32e(r)
	if err != nil {
		return err
	}
	entry.Name, err = readString(r, nameLen)
	return err
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readU32e(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errs.New(errs.KindCorrupt, "walk", nil, err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readString(r *bytes.Reader, length uint32) (string, error) {
	b := make([]byte, length)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", errs.New(errs.KindCorrupt, "walk", nil, err)
	}
	return string(b), nil
}
