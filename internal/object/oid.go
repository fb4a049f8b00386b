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

package object

import (
	"crypto/sha256"
	"encoding/hex"
)

// OID is the 32-byte content-address of an object's uncompressed payload.
type OID [32]byte

// Sum computes the OID of a payload.
func Sum(payload []byte) OID {
	return OID(sha256.Sum256(payload))
}

// String renders the OID as lowercase hex, the human-facing form named in
// spec.md §3.
func (o OID) String() string {
	return hex.EncodeToString(o[:])
}

// ParseOID parses a lowercase-hex OID string back into its byte form.
func ParseOID(s string) (OID, error) {
	var o OID
	b, err := hex.DecodeString(s)
	if err != nil {
		return o, err
	}
	if len(b) != len(o) {
		return o, errInvalidOIDLength
	}
	copy(o[:], b)
	return o, nil
}

// IsZero reports whether this OID is the all-zero value (used as a sentinel
// for "no dependency"/"unset").
func (o OID) IsZero() bool {
	return o == OID{}
}
