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

// Command acacia-objdump recursively decodes and renders an Object, Tree, or
// Index file. It is the introspection counterpart to acacia-build: given the
// bytes of one of this project's wire formats, it prints a human-readable
// tree of what they contain.
//
//	$ acacia-objdump --file pkg.obj
//	Object a1b2...cd class=01:30 compression=00 deps=1 payload=64B
//	    >> tree is a dependency link to 9f8e...
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ogier/pflag"

	"github.com/acacialinux/tooling/internal/object"
	"github.com/acacialinux/tooling/internal/walk"
)

func main() {
	var (
		filePath      string
		recurse       bool
		withChecksums bool
	)

	fs := pflag.NewFlagSet("acacia-objdump", pflag.ContinueOnError)
	fs.StringVar(&filePath, "file", "", "path to the file to dump (default: stdin)")
	fs.BoolVar(&recurse, "recurse", false, "follow embedded Tree/Index payloads and render them nested")
	fs.BoolVar(&withChecksums, "with-checksums", false, "print the SHA-256 of each rendered file payload")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	data, err := readInput(filePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	dump, err := recognizeAndDump(data, recurse, withChecksums)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(dump)
}

func readInput(filePath string) ([]byte, error) {
	if filePath == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(filePath)
}

// indent is a general-purpose helper for pretty-printing of nested dumps,
// mirroring the teacher's dump-package Indent helper.
func indent(dump string) string {
	dump = strings.TrimSuffix(dump, "\n")
	const prefix = "    "
	return prefix + strings.Replace(dump, "\n", "\n"+prefix, -1) + "\n"
}

// recognizeAndDump sniffs data for one of the three recognized magic values
// and renders it, recursing into embedded payloads when requested. Data that
// matches none of them is rendered as an opaque blob, mirroring the
// teacher's dump-package "data as shown below" fallback.
func recognizeAndDump(data []byte, recurse, withChecksums bool) (string, error) {
	if len(data) == 0 {
		return "empty file", nil
	}

	var (
		result string
		err    error
	)
	switch magicOf(data) {
	case "AOBJ":
		result, err = dumpObject(data, recurse, withChecksums)
	case "ALTR":
		result, err = dumpTree(data, withChecksums)
	case "AIDX":
		result, err = dumpIndex(data, withChecksums)
	default:
		result = "data as shown below\n" + indent(fmt.Sprintf("%q", data))
	}
	if err != nil {
		return "", err
	}
	if withChecksums {
		return fmt.Sprintf("(sha256:%s) %s", object.Sum(data), result), nil
	}
	return result, nil
}

func magicOf(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	return string(data[:4])
}

func dumpObject(data []byte, recurse, withChecksums bool) (string, error) {
	obj, err := object.Decode(data)
	if err != nil {
		return "", err
	}

	header := fmt.Sprintf("Object %s class=%02x:%02x compression=%02x deps=%d payload=%dB",
		obj.OID, obj.Class, obj.Type, obj.Compression, len(obj.Dependencies), len(obj.Payload))

	lines := ""
	for _, dep := range obj.Dependencies {
		lines += fmt.Sprintf(">> %s is a dependency link to %s\n", dep.Path, dep.OID)
	}

	if recurse {
		payloadDump, err := recognizeAndDump(obj.Payload, recurse, withChecksums)
		if err != nil {
			payloadDump = "payload is not a further Tree/Index/Object: " + err.Error()
		}
		lines += ">> payload: " + payloadDump + "\n"
	}

	if lines == "" {
		return header, nil
	}
	return header + "\n" + indent(lines), nil
}

func dumpTree(data []byte, withChecksums bool) (string, error) {
	tree, err := walk.DecodeTree(data)
	if err != nil {
		return "", err
	}

	lines := ""
	for _, e := range tree.Entries {
		switch e.Kind {
		case walk.EntryFile:
			lines += fmt.Sprintf(">> %s is regular file (mode: %04o, owner: %d, group: %d), oid: %s\n",
				e.Name, e.Mode, e.UID, e.GID, e.OID)
		case walk.EntrySymlink:
			lines += fmt.Sprintf(">> %s is symlink to %s\n", e.Name, e.Target)
		case walk.EntrySubtree:
			lines += fmt.Sprintf(">> %s is subtree (mode: %04o, owner: %d, group: %d), oid: %s\n",
				e.Name, e.Mode, e.UID, e.GID, e.OID)
		}
	}

	return fmt.Sprintf("Tree archive (%d entries)\n%s", len(tree.Entries), indent(lines)), nil
}

func dumpIndex(data []byte, withChecksums bool) (string, error) {
	idx, err := walk.DecodeIndex(data)
	if err != nil {
		return "", err
	}

	lines := ""
	depth := 0
	for _, op := range idx.Ops {
		switch op.Kind {
		case walk.OpDirectoryUp:
			depth--
			lines += ">> end of directory\n"
		case walk.OpDirectory:
			lines += fmt.Sprintf(">> %s is directory (mode: %04o, owner: %d, group: %d)\n", op.Name, op.Mode, op.UID, op.GID)
			depth++
		case walk.OpFile:
			lines += fmt.Sprintf(">> %s is regular file (mode: %04o, owner: %d, group: %d), oid: %s\n",
				op.Name, op.Mode, op.UID, op.GID, op.OID)
		case walk.OpSymlink:
			lines += fmt.Sprintf(">> %s is symlink to %s\n", op.Name, op.Target)
		}
	}

	return fmt.Sprintf("Index stream (%d ops, final depth %d)\n%s", len(idx.Ops), depth, indent(lines)), nil
}
