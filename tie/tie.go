// Copyright 2024 The bsc-codec Authors
// This file is part of the bsc-codec library.
//
// The bsc-codec library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The bsc-codec library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the bsc-codec library. If not, see <http://www.gnu.org/licenses/>.

// Package tie resolves the circular references the memory decoder leaves in
// a result tree.
//
// The memory decoder does not decode an array or struct a second time when
// it is reached again from inside itself; it emits an empty node whose
// Reference is the 1-based position of the repeated node among its array
// and struct ancestors, innermost first. Tie replaces each such node by a
// back-reference: a shallow copy of the ancestor, sharing its contents, that
// keeps the Reference tag so consumers can stop there. Sever undoes this.
package tie

import (
	"github.com/bnb-chain/bsc-codec/format"
)

// Tie returns v with every Reference tag resolved against its ancestors. v
// is not modified. Tie is idempotent.
func Tie(v format.Result) format.Result {
	return tie(v, nil)
}

// ancestors is a persistent list of rebuilt array and struct nodes,
// innermost first. Extending it never changes the list it extends.
type ancestors struct {
	node format.Result
	next *ancestors
}

// at returns the n-th ancestor, counting from 1, or nil.
func (a *ancestors) at(n int) format.Result {
	for ; a != nil && n > 1; n-- {
		a = a.next
	}
	if a == nil || n != 1 {
		return nil
	}
	return a.node
}

// tie rebuilds v; seen holds the rebuilt ancestors of v.
func tie(v format.Result, seen *ancestors) format.Result {
	switch v := v.(type) {
	case *format.ArrayValue:
		if v.Reference != 0 {
			return backReference(v, v.Reference, seen)
		}
		tied := &format.ArrayValue{Type: v.Type, Value: make([]format.Result, len(v.Value))}
		inner := &ancestors{node: tied, next: seen}
		for i, child := range v.Value {
			tied.Value[i] = tie(child, inner)
		}
		return tied

	case *format.StructValue:
		if v.Reference != 0 {
			return backReference(v, v.Reference, seen)
		}
		tied := &format.StructValue{Type: v.Type, Value: make([]format.NameValuePair, len(v.Value))}
		inner := &ancestors{node: tied, next: seen}
		for i, member := range v.Value {
			tied.Value[i] = format.NameValuePair{Name: member.Name, Value: tie(member.Value, inner)}
		}
		return tied

	case *format.TupleValue:
		tied := &format.TupleValue{Type: v.Type, Value: make([]format.NameValuePair, len(v.Value))}
		for i, member := range v.Value {
			tied.Value[i] = format.NameValuePair{Name: member.Name, Value: tie(member.Value, seen)}
		}
		return tied
	}
	return v
}

func backReference(v format.Result, reference int, seen *ancestors) format.Result {
	switch ancestor := seen.at(reference).(type) {
	case *format.ArrayValue:
		cpy := *ancestor
		cpy.Reference = reference
		return &cpy
	case *format.StructValue:
		cpy := *ancestor
		cpy.Reference = reference
		return &cpy
	}
	return v
}

// Sever returns v with the contents of every back-reference dropped, which
// makes a tied tree finite again. v is not modified.
func Sever(v format.Result) format.Result {
	switch v := v.(type) {
	case *format.ArrayValue:
		if v.Reference != 0 {
			return &format.ArrayValue{Type: v.Type, Reference: v.Reference}
		}
		severed := &format.ArrayValue{Type: v.Type, Value: make([]format.Result, len(v.Value))}
		for i, child := range v.Value {
			severed.Value[i] = Sever(child)
		}
		return severed

	case *format.StructValue:
		if v.Reference != 0 {
			return &format.StructValue{Type: v.Type, Reference: v.Reference}
		}
		severed := &format.StructValue{Type: v.Type, Value: make([]format.NameValuePair, len(v.Value))}
		for i, member := range v.Value {
			severed.Value[i] = format.NameValuePair{Name: member.Name, Value: Sever(member.Value)}
		}
		return severed

	case *format.TupleValue:
		severed := &format.TupleValue{Type: v.Type, Value: make([]format.NameValuePair, len(v.Value))}
		for i, member := range v.Value {
			severed.Value[i] = format.NameValuePair{Name: member.Name, Value: Sever(member.Value)}
		}
		return severed
	}
	return v
}
