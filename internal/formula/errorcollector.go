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

package formula

import (
	"errors"
	"fmt"
)

// FormulaIssues accumulates the validation complaints gathered while
// walking a parsed formula, so Load can report every problem with a
// formula.toml in one pass instead of stopping at the first one.
type FormulaIssues struct {
	Issues []error
}

// Record appends err if non-nil.
func (fi *FormulaIssues) Record(err error) {
	if err != nil {
		fi.Issues = append(fi.Issues, err)
	}
}

// Recordf appends an error built from a format string.
func (fi *FormulaIssues) Recordf(format string, args ...interface{}) {
	if len(args) > 0 {
		fi.Issues = append(fi.Issues, fmt.Errorf(format, args...))
	} else {
		fi.Issues = append(fi.Issues, errors.New(format))
	}
}
