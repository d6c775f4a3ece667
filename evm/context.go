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
	"bytes"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru"

	"github.com/bnb-chain/bsc-codec/cachemetrics"
	"github.com/bnb-chain/bsc-codec/format"
)

const defaultContextCacheSize = 1024

// Wildcard is a byte range of a context's binary that varies between
// deployments, such as a library link reference or an immutable, and is
// ignored when matching code.
type Wildcard struct {
	Start  int
	Length int
}

// Context describes one compiled contract, either its deployed code or its
// constructor (creation code).
type Context struct {
	Context       string // context hash, unique within a ContextSet
	Binary        []byte
	Wildcards     []Wildcard
	IsConstructor bool

	ContractName string
	ContractID   string
	ContractKind string // "contract", "library" or "interface"
	Payable      bool
	Abi          *abi.ABI
}

// Class returns the contract type of the context.
func (c *Context) Class() *format.ContractType {
	return &format.ContractType{
		ID:           c.ContractID,
		TypeName:     c.ContractName,
		ContractKind: c.ContractKind,
		Payable:      c.Payable,
	}
}

// Matches reports whether code was produced from this context. Deployed
// contexts must match the whole code; constructor contexts match a prefix,
// since constructor arguments are appended to the creation code.
func (c *Context) Matches(code []byte) bool {
	if len(c.Binary) == 0 {
		return false
	}
	if c.IsConstructor {
		if len(code) < len(c.Binary) {
			return false
		}
		code = code[:len(c.Binary)]
	} else if len(code) != len(c.Binary) {
		return false
	}
	pos := 0
	for _, w := range c.Wildcards {
		if w.Start < pos || w.Start+w.Length > len(code) {
			continue
		}
		if !bytes.Equal(code[pos:w.Start], c.Binary[pos:w.Start]) {
			return false
		}
		pos = w.Start + w.Length
	}
	return bytes.Equal(code[pos:], c.Binary[pos:])
}

// ContextSet is the set of known contexts. Code matching results are cached
// by code hash. A ContextSet is safe for concurrent use.
type ContextSet struct {
	ordered []*Context
	byHash  map[string]*Context
	matches *lru.Cache
}

type matchKey struct {
	hash        common.Hash
	constructor bool
}

// NewContextSet builds a context set with a match cache of cacheSize
// entries; zero selects a default size. Wildcards must be sorted and
// disjoint.
func NewContextSet(contexts []*Context, cacheSize int) (*ContextSet, error) {
	if cacheSize <= 0 {
		cacheSize = defaultContextCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	set := &ContextSet{
		ordered: contexts,
		byHash:  make(map[string]*Context, len(contexts)),
		matches: cache,
	}
	for _, ctx := range contexts {
		set.byHash[ctx.Context] = ctx
	}
	return set, nil
}

// Get returns the context with the given hash, or nil.
func (s *ContextSet) Get(hash string) *Context {
	if s == nil {
		return nil
	}
	return s.byHash[hash]
}

// All returns every context in the order given to NewContextSet.
func (s *ContextSet) All() []*Context {
	if s == nil {
		return nil
	}
	return s.ordered
}

// MatchDeployed returns the deployed context that produced code, or nil.
func (s *ContextSet) MatchDeployed(code []byte) *Context {
	return s.match(code, false)
}

// MatchConstructor returns the constructor context whose creation code
// prefixes input, or nil.
func (s *ContextSet) MatchConstructor(input []byte) *Context {
	return s.match(input, true)
}

func (s *ContextSet) match(code []byte, constructor bool) *Context {
	if s == nil || len(code) == 0 {
		return nil
	}
	start := time.Now()
	// constructor inputs embed their arguments and are never cached
	if constructor {
		cachemetrics.RecordCacheDepth(cachemetrics.ContextCacheBypass)
		return s.scan(code, true)
	}
	key := matchKey{hash: crypto.Keccak256Hash(code), constructor: constructor}
	if cached, ok := s.matches.Get(key); ok {
		cachemetrics.Record(cachemetrics.ContextCacheHit, start)
		return cached.(*Context)
	}
	ctx := s.scan(code, constructor)
	s.matches.Add(key, ctx)
	cachemetrics.Record(cachemetrics.ContextCacheMiss, start)
	return ctx
}

func (s *ContextSet) scan(code []byte, constructor bool) *Context {
	for _, ctx := range s.ordered {
		if ctx.IsConstructor == constructor && ctx.Matches(code) {
			return ctx
		}
	}
	return nil
}
