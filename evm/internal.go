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

package evm

import (
	"github.com/bnb-chain/bsc-codec/format"
)

// InternalFunction is an entry of an internal functions table.
type InternalFunction struct {
	Name       string
	ID         string
	DefinedIn  *format.ContractType
	Mutability string
	// IsDesignatedInvalid marks the compiler's panic routine, which decodes
	// as an exception rather than a function.
	IsDesignatedInvalid bool
}

// InternalFunctionsTable maps program counters of the current context to the
// internal functions starting there.
type InternalFunctionsTable map[uint64]*InternalFunction
