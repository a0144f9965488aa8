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

package ir

import (
	"fmt"
	"strings"
)

// Type of an IR register or block argument.
type Type interface {
	fmt.Stringer
	typ()
}

type (
	// NamedType is a nominal type referenced by name.
	NamedType struct {
		Name string
	}

	// SpecializedType applies type arguments to a generic nominal type.
	SpecializedType struct {
		Base Type
		Args []Type
	}

	// TupleType is an ordered product of types.
	TupleType struct {
		Elems []Type
	}

	// FunctionType is a function signature.
	FunctionType struct {
		Params  []Type
		Results []Type
	}

	// AddressType is the address of a value of the pointee type.
	AddressType struct {
		Pointee Type
	}

	// AttributedType wraps a type with a calling-convention or
	// representation attribute.
	AttributedType struct {
		Attr    string
		Wrapped Type
	}

	// GenericType wraps a type appearing under a generic signature.
	GenericType struct {
		Wrapped Type
	}

	// OwnershipType wraps a type with an ownership marker.
	OwnershipType struct {
		Marker  string
		Wrapped Type
	}

	// BuiltinType is a compiler-builtin qualified type.
	BuiltinType struct {
		Name string
	}
)

func (*NamedType) typ()       {}
func (*SpecializedType) typ() {}
func (*TupleType) typ()       {}
func (*FunctionType) typ()    {}
func (*AddressType) typ()     {}
func (*AttributedType) typ()  {}
func (*GenericType) typ()     {}
func (*OwnershipType) typ()   {}
func (*BuiltinType) typ()     {}

func (t *NamedType) String() string { return t.Name }

func (t *SpecializedType) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Base.String(), strings.Join(args, ", "))
}

func (t *TupleType) String() string {
	elems := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = e.String()
	}
	return "(" + strings.Join(elems, ", ") + ")"
}

func (t *FunctionType) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	results := make([]string, len(t.Results))
	for i, r := range t.Results {
		results[i] = r.String()
	}
	return fmt.Sprintf("(%s) -> (%s)", strings.Join(params, ", "), strings.Join(results, ", "))
}

func (t *AddressType) String() string {
	return "*" + t.Pointee.String()
}

func (t *AttributedType) String() string {
	return t.Attr + " " + t.Wrapped.String()
}

func (t *GenericType) String() string {
	return t.Wrapped.String()
}

func (t *OwnershipType) String() string {
	return t.Marker + " " + t.Wrapped.String()
}

func (t *BuiltinType) String() string {
	return "Builtin." + t.Name
}

// Simplify strips attributes, generic wrappers and ownership markers,
// exposing the structural type underneath. Addresses are preserved:
// an address is structurally different from its pointee.
func Simplify(t Type) Type {
	switch tT := t.(type) {
	case *AttributedType:
		return Simplify(tT.Wrapped)
	case *GenericType:
		return Simplify(tT.Wrapped)
	case *OwnershipType:
		return Simplify(tT.Wrapped)
	case *SpecializedType:
		return &SpecializedType{Base: Simplify(tT.Base), Args: tT.Args}
	default:
		return t
	}
}

// BaseName returns the nominal name at the root of a type after
// simplification, or the empty string if the type is not nominal.
func BaseName(t Type) string {
	switch tT := Simplify(t).(type) {
	case *NamedType:
		return tT.Name
	case *SpecializedType:
		return BaseName(tT.Base)
	default:
		return ""
	}
}
