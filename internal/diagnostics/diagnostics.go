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

// Package diagnostics prints structured, leveled messages to standard
// error. All components route their diagnostics through here so that
// standard output can remain reserved for the patch-command stream (§6).
//
// This generalizes the teacher's hand-rolled ShowWarning/ShowError ANSI
// helpers (src/holo-build/util.go) into structured fields, as required by
// the "component, error kind, context" message shape in spec.md §7.
package diagnostics

import (
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/acacialinux/tooling/internal/errs"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetVerbose toggles debug-level logging (stack traces on fatal errors).
func SetVerbose(verbose bool) {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

// Info logs a routine progress message.
func Info(component, msg string, fields map[string]string) {
	log.WithFields(toFields(fields)).WithField("component", component).Info(msg)
}

// Warn logs a non-fatal warning, color-prefixed like the teacher's
// ShowWarning helper.
func Warn(component, msg string, fields map[string]string) {
	prefix := color.New(color.FgYellow, color.Bold).Sprint(">>")
	log.WithFields(toFields(fields)).WithField("component", component).Warn(prefix + " " + msg)
}

// ReportError logs a component error with its kind and context, per the
// structured-message requirement in spec.md §7.
func ReportError(component string, err error) {
	prefix := color.New(color.FgRed, color.Bold).Sprint("!!")
	fields := map[string]string{}
	if e, ok := err.(*errs.Error); ok {
		fields["kind"] = string(e.Kind)
		for k, v := range e.Context {
			fields[k] = v
		}
		if trace := e.StackTrace(); trace != "" {
			log.WithField("component", component).Debug(trace)
		}
	}
	log.WithFields(toFields(fields)).WithField("component", component).Error(prefix + " " + err.Error())
}

func toFields(fields map[string]string) logrus.Fields {
	f := make(logrus.Fields, len(fields))
	for k, v := range fields {
		f[k] = v
	}
	return f
}
