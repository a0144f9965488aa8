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
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Field is a named, typed field of a nominal type.
	Field struct {
		Name string
		Type Type
	}

	// TypeEnvironment maps nominal type names to their ordered field
	// lists. The order is the declaration order of the fields and is
	// significant: aggregate construction passes fields positionally.
	TypeEnvironment map[string][]Field
)

// Fields returns the declared fields of a nominal type.
func (env TypeEnvironment) Fields(name string) ([]Field, bool) {
	fields, ok := env[name]
	return fields, ok
}

// FieldIndex returns the position of a field within a nominal type.
func (env TypeEnvironment) FieldIndex(typeName, fieldName string) (int, error) {
	fields, ok := env[typeName]
	if !ok {
		return 0, errors.Errorf("type %s not declared in the environment", typeName)
	}
	for i, f := range fields {
		if f.Name == fieldName {
			return i, nil
		}
	}
	return 0, errors.Errorf("type %s has no field %s", typeName, fieldName)
}

type yamlField struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// TypeEnvironmentFromYAML parses a type environment from a YAML
// document of the form:
//
//	Conv2D:
//	  - {name: filters, type: Int}
//	  - {name: kernelSize, type: TensorShape}
//
// Field types are nominal references.
func TypeEnvironmentFromYAML(src []byte) (TypeEnvironment, error) {
	var doc map[string][]yamlField
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, errors.Errorf("cannot parse type environment: %v", err)
	}
	env := make(TypeEnvironment, len(doc))
	for name, fields := range doc {
		decl := make([]Field, len(fields))
		for i, f := range fields {
			if f.Name == "" {
				return nil, errors.Errorf("type %s: field %d has no name", name, i)
			}
			decl[i] = Field{Name: f.Name, Type: &NamedType{Name: f.Type}}
		}
		env[name] = decl
	}
	return env, nil
}
