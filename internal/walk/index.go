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
	"fmt"
	"io"

	"github.com/acacialinux/tooling/internal/errs"
	"github.com/acacialinux/tooling/internal/object"
)

var indexMagic = [4]byte{'A', 'I', 'D', 'X'}

const indexFormatVersion = 0x00

// IndexOpKind tags which Index instruction an IndexOp represents.
type IndexOpKind int

const (
	OpDirectoryUp IndexOpKind = iota
	OpDirectory
	OpFile
	OpSymlink
)

const (
	idxDirectoryUp byte = 0x00
	idxDirectory   byte = 0x10
	idxFile        byte = 0x20
	idxSymlink     byte = 0x30
)

// IndexOp is one instruction of a linear, stream-oriented filesystem-
// hierarchy encoding (spec.md §3, §4.C).
type IndexOp struct {
	Kind   IndexOpKind
	UID    uint32
	GID    uint32
	Mode   uint32
	Name   string
	OID    object.OID // set for OpFile
	Target string     // set for OpSymlink
}

// Index is an ordered sequence of IndexOps.
type Index struct {
	Ops []IndexOp
}

// EncodeIndex serializes ops in caller-provided order into the AIDX wire
// format.
func EncodeIndex(ops []IndexOp) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(indexMagic[:])
	buf.WriteByte(indexFormatVersion)

	for _, op := range ops {
		switch op.Kind {
		case OpDirectoryUp:
			buf.WriteByte(idxDirectoryUp)
		case OpDirectory:
			if err := validateName(op.Name); err != nil {
				return nil, err
			}
			buf.WriteByte(idxDirectory)
			writeU32(&buf, op.UID)
			writeU32(&buf, op.GID)
			writeU32(&buf, op.Mode)
			writeU32(&buf, uint32(len(op.Name)))
			buf.WriteString(op.Name)
		case OpFile:
			if err := validateName(op.Name); err != nil {
				return nil, err
			}
			buf.WriteByte(idxFile)
			writeU32(&buf, op.UID)
			writeU32(&buf, op.GID)
			writeU32(&buf, op.Mode)
			writeU32(&buf, uint32(len(op.Name)))
			writeU32(&buf, uint32(len(op.OID)))
			buf.WriteString(op.Name)
			buf.Write(op.OID[:])
		case OpSymlink:
			if err := validateName(op.Name); err != nil {
				return nil, err
			}
			buf.WriteByte(idxSymlink)
			writeU32(&buf, op.UID)
			writeU32(&buf, op.GID)
			writeU32(&buf, op.Mode)
			writeU32(&buf, uint32(len(op.Name)))
			writeU32(&buf, uint32(len(op.Target)))
			buf.WriteString(op.Name)
			buf.WriteString(op.Target)
		default:
			return nil, errs.New(errs.KindInvalidInput, "walk", nil, fmt.Errorf("unknown index op kind %d", op.Kind))
		}
	}

	return buf.Bytes(), nil
}

// DecodeIndex parses an AIDX byte stream. It refuses escaping names and
// rejects an OID-length field other than 32 for version-0 files, per the
// Open Question resolution recorded in DESIGN.md.
func DecodeIndex(data []byte) (*Index, error) {
	r := bytes.NewReader(data)

	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil || gotMagic != indexMagic {
		return nil, errs.New(errs.KindCorrupt, "walk", nil, fmt.Errorf("bad index magic"))
	}
	version, err := r.ReadByte()
	if err != nil {
		return nil, errs.New(errs.KindCorrupt, "walk", nil, err)
	}
	if version != indexFormatVersion {
		return nil, errs.New(errs.KindCorrupt, "walk", map[string]string{"version": fmt.Sprintf("%d", version)}, fmt.Errorf("unsupported index version"))
	}

	var ops []IndexOp
	depth := 0
	for {
		cmd, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.New(errs.KindCorrupt, "walk", nil, err)
		}

		var op IndexOp
		switch cmd {
		case idxDirectoryUp:
			if depth == 0 {
				return nil, errs.New(errs.KindIndexEscape, "walk", nil, fmt.Errorf("DirectoryUp at VWD depth zero"))
			}
			depth--
			op.Kind = OpDirectoryUp
		case idxDirectory:
			op.Kind = OpDirectory
			if err := readDirFields(r, &op); err != nil {
				return nil, err
			}
			depth++
		case idxFile:
			op.Kind = OpFile
			op.UID, err = readU32e(r)
			if err != nil {
				return nil, err
			}
			op.GID, err = readU32e(r)
			if err != nil {
				return nil, err
			}
			op.Mode, err = readU32e(r)
			if err != nil {
				return nil, err
			}
			nameLen, err := readU32e(r)
			if err != nil {
				return nil, err
			}
			oidLen, err := readU32e(r)
			if err != nil {
				return nil, err
			}
			if oidLen != uint32(len(op.OID)) {
				return nil, errs.New(errs.KindCorrupt, "walk", map[string]string{"oid_len": fmt.Sprintf("%d", oidLen)}, fmt.Errorf("unsupported OID length for version-0 index"))
			}
			op.Name, err = readString(r, nameLen)
			if err != nil {
				return nil, err
			}
			if _, err := io.ReadFull(r, op.OID[:]); err != nil {
				return nil, errs.New(errs.KindCorrupt, "walk", nil, err)
			}
		case idxSymlink:
			op.Kind = OpSymlink
			op.UID, err = readU32e(r)
			if err != nil {
				return nil, err
			}
			op.GID, err = readU32e(r)
			if err != nil {
				return nil, err
			}
			op.Mode, err = readU32e(r)
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
			op.Name, err = readString(r, nameLen)
			if err != nil {
				return nil, err
			}
			op.Target, err = readString(r, targetLen)
			if err != nil {
				return nil, err
			}
		default:
			return nil, errs.New(errs.KindCorrupt, "walk", map[string]string{"cmd": fmt.Sprintf("%#x", cmd)}, fmt.Errorf("unknown index command"))
		}

		if op.Kind != OpDirectoryUp {
			if err := validateName(op.Name); err != nil {
				return nil, err
			}
		}

		ops = append(ops, op)
	}

	return &Index{Ops: ops}, nil
}

func readDirFields(r *bytes.Reader, op *IndexOp) error {
	var err error
	op.UID, err = readU32e(r)
	if err != nil {
		return err
	}
	op.GID, err = readU32e(r)
	if err != nil {
		return err
	}
	op.Mode, err = readU32e(r)
	if err != nil {
		return err
	}
	nameLen, err := readU32e(r)
	if err != nil {
		return err
	}
	op.Name, err = readString(r, nameLen)
	return err
}
