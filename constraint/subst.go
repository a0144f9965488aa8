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

package constraint

// Substitution maps variables to terms of the same sort. Each sort has
// its own map, so applying a substitution can never change the sort of
// a term.
type Substitution struct {
	Ints  map[int]IntExpr
	Lists map[int]ListExpr
	Bools map[int]BoolExpr
}

// NewSubstitution returns an empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{
		Ints:  make(map[int]IntExpr),
		Lists: make(map[int]ListExpr),
		Bools: make(map[int]BoolExpr),
	}
}

// Empty returns true if the substitution maps no variable.
func (s *Substitution) Empty() bool {
	return len(s.Ints) == 0 && len(s.Lists) == 0 && len(s.Bools) == 0
}

// Int applies the substitution to an integer term.
func (s *Substitution) Int(e IntExpr) IntExpr {
	if e == nil {
		return nil
	}
	switch eT := e.(type) {
	case *IntVar:
		if to, ok := s.Ints[eT.ID]; ok {
			return to
		}
		return eT
	case *IntLit, *Hole:
		return e
	case *Length:
		return &Length{Of: s.List(eT.Of)}
	case *Element:
		return &Element{Index: eT.Index, Of: s.List(eT.Of)}
	case *IntBinary:
		return &IntBinary{Op: eT.Op, X: s.Int(eT.X), Y: s.Int(eT.Y)}
	}
	return e
}

// List applies the substitution to a shape term.
func (s *Substitution) List(e ListExpr) ListExpr {
	if e == nil {
		return nil
	}
	switch eT := e.(type) {
	case *ListVar:
		if to, ok := s.Lists[eT.ID]; ok {
			return to
		}
		return eT
	case *ListLit:
		dims := make([]IntExpr, len(eT.Dims))
		for i, d := range eT.Dims {
			dims[i] = s.Int(d)
		}
		return &ListLit{Dims: dims}
	case *Broadcast:
		return &Broadcast{X: s.List(eT.X), Y: s.List(eT.Y)}
	}
	return e
}

// Bool applies the substitution to a boolean term.
func (s *Substitution) Bool(e BoolExpr) BoolExpr {
	if e == nil {
		return nil
	}
	switch eT := e.(type) {
	case *BoolLit:
		return e
	case *BoolVar:
		if to, ok := s.Bools[eT.ID]; ok {
			return to
		}
		return eT
	case *Not:
		return MakeNot(s.Bool(eT.X))
	case *And:
		args := make([]BoolExpr, len(eT.Args))
		for i, a := range eT.Args {
			args[i] = s.Bool(a)
		}
		return MakeAnd(args...)
	case *Or:
		args := make([]BoolExpr, len(eT.Args))
		for i, a := range eT.Args {
			args[i] = s.Bool(a)
		}
		return MakeOr(args...)
	case *IntCmp:
		return &IntCmp{Op: eT.Op, X: s.Int(eT.X), Y: s.Int(eT.Y)}
	case *ListEq:
		return &ListEq{X: s.List(eT.X), Y: s.List(eT.Y)}
	case *BoolEq:
		return &BoolEq{X: s.Bool(eT.X), Y: s.Bool(eT.Y)}
	}
	return e
}

// Apply applies the substitution to a term of any sort.
// A nil term stays nil.
func (s *Substitution) Apply(e Expr) Expr {
	switch eT := e.(type) {
	case nil:
		return nil
	case IntExpr:
		return s.Int(eT)
	case ListExpr:
		return s.List(eT)
	case BoolExpr:
		return s.Bool(eT)
	case *Tuple:
		elems := make([]Expr, len(eT.Elems))
		for i, el := range eT.Elems {
			elems[i] = s.Apply(el)
		}
		return &Tuple{Elems: elems}
	}
	return e
}

// Compose returns the substitution equivalent to applying s then t:
// for every term e, Compose(s, t).Apply(e) = t.Apply(s.Apply(e)).
func Compose(s, t *Substitution) *Substitution {
	r := NewSubstitution()
	for id, e := range s.Ints {
		r.Ints[id] = t.Int(e)
	}
	for id, e := range s.Lists {
		r.Lists[id] = t.List(e)
	}
	for id, e := range s.Bools {
		r.Bools[id] = t.Bool(e)
	}
	for id, e := range t.Ints {
		if _, in := r.Ints[id]; !in {
			r.Ints[id] = e
		}
	}
	for id, e := range t.Lists {
		if _, in := r.Lists[id]; !in {
			r.Lists[id] = e
		}
	}
	for id, e := range t.Bools {
		if _, in := r.Bools[id]; !in {
			r.Bools[id] = e
		}
	}
	return r
}

// VarSet collects the variables occurring in terms, per sort.
type VarSet struct {
	Ints  map[int]bool
	Lists map[int]bool
	Bools map[int]bool
}

// NewVarSet returns an empty variable set.
func NewVarSet() *VarSet {
	return &VarSet{
		Ints:  make(map[int]bool),
		Lists: make(map[int]bool),
		Bools: make(map[int]bool),
	}
}

// Add the variables of a term to the set. A nil term adds nothing.
func (vs *VarSet) Add(e Expr) {
	switch eT := e.(type) {
	case nil:
	case *IntVar:
		vs.Ints[eT.ID] = true
	case *IntLit, *Hole, *BoolLit:
	case *Length:
		vs.Add(eT.Of)
	case *Element:
		vs.Add(eT.Of)
	case *IntBinary:
		vs.Add(eT.X)
		vs.Add(eT.Y)
	case *ListVar:
		vs.Lists[eT.ID] = true
	case *ListLit:
		for _, d := range eT.Dims {
			if d != nil {
				vs.Add(d)
			}
		}
	case *Broadcast:
		vs.Add(eT.X)
		vs.Add(eT.Y)
	case *BoolVar:
		vs.Bools[eT.ID] = true
	case *Not:
		vs.Add(eT.X)
	case *And:
		for _, a := range eT.Args {
			vs.Add(a)
		}
	case *Or:
		for _, a := range eT.Args {
			vs.Add(a)
		}
	case *IntCmp:
		vs.Add(eT.X)
		vs.Add(eT.Y)
	case *ListEq:
		vs.Add(eT.X)
		vs.Add(eT.Y)
	case *BoolEq:
		vs.Add(eT.X)
		vs.Add(eT.Y)
	case *Tuple:
		for _, el := range eT.Elems {
			vs.Add(el)
		}
	}
}

// HasInt returns true if the integer variable occurs in the set.
func (vs *VarSet) HasInt(id int) bool { return vs.Ints[id] }

// MaxID returns the largest variable number in the set, or -1 when
// the set is empty.
func (vs *VarSet) MaxID() int {
	at := -1
	for _, m := range []map[int]bool{vs.Ints, vs.Lists, vs.Bools} {
		for id := range m {
			if id > at {
				at = id
			}
		}
	}
	return at
}

// Namer allocates fresh variables. All three sorts share one counter,
// so a variable number is unique across sorts.
type Namer struct {
	next int
}

// NewNamer returns a namer starting at zero.
func NewNamer() *Namer {
	return &Namer{}
}

// NewNamerAt returns a namer whose first variable is numbered next.
// Use it to extend a term universe without colliding with the
// variables already in it.
func NewNamerAt(next int) *Namer {
	return &Namer{next: next}
}

// Int allocates a fresh integer variable.
func (n *Namer) Int() *IntVar {
	v := &IntVar{ID: n.next}
	n.next++
	return v
}

// List allocates a fresh shape variable.
func (n *Namer) List() *ListVar {
	v := &ListVar{ID: n.next}
	n.next++
	return v
}

// Bool allocates a fresh boolean variable.
func (n *Namer) Bool() *BoolVar {
	v := &BoolVar{ID: n.next}
	n.next++
	return v
}

// Rename builds a substitution mapping every variable of the set to a
// fresh variable of the same sort.
func (n *Namer) Rename(vs *VarSet) *Substitution {
	s := NewSubstitution()
	for _, id := range sortedKeys(vs.Ints) {
		s.Ints[id] = n.Int()
	}
	for _, id := range sortedKeys(vs.Lists) {
		s.Lists[id] = n.List()
	}
	for _, id := range sortedKeys(vs.Bools) {
		s.Bools[id] = n.Bool()
	}
	return s
}
