// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fmterr formats errors and warnings attached to source
// locations of the analysed program.
package fmterr

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/gx-org/shapecheck/ir"
)

type (
	// ErrorWithPos is an error attached to a position in the analysed
	// source.
	ErrorWithPos interface {
		error
		Loc() *ir.SourceLocation
		Err() error
	}

	errorWithPos struct {
		loc *ir.SourceLocation
		err error
	}
)

// Position attaches a source location to an error.
func Position(loc *ir.SourceLocation, err error) ErrorWithPos {
	return errorWithPos{loc: loc, err: err}
}

// Errorf returns a formatted error attached to a source location.
func Errorf(loc *ir.SourceLocation, format string, a ...any) error {
	return Position(loc, errors.Errorf(format, a...))
}

// Error returns a string description of the error.
func (err errorWithPos) Error() string {
	if err.loc == nil {
		return err.err.Error()
	}
	return err.loc.String() + ": " + err.err.Error()
}

// Unwrap the error.
func (err errorWithPos) Unwrap() error {
	return err.err
}

// Loc returns the source location of the error.
func (err errorWithPos) Loc() *ir.SourceLocation {
	return err.loc
}

// Err returns the underlying error.
func (err errorWithPos) Err() error {
	return err.err
}

// Internal marks an error as an internal inconsistency: a bug in the
// checker or in the IR it was given, not in the analysed program.
func Internal(err error) error {
	return fmt.Errorf("shapecheck internal error. This is a bug. Please report it. Error:\n%+v", err)
}

// Internalf returns a formatted internal error attached to a location.
func Internalf(loc *ir.SourceLocation, format string, a ...any) error {
	return Internal(Errorf(loc, format, a...))
}
