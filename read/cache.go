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

package read

import (
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/bnb-chain/bsc-codec/cachemetrics"
	"github.com/bnb-chain/bsc-codec/format"
)

// CacheConfig sizes the caches of a CachedSource.
type CacheConfig struct {
	CodeCacheBytes    int
	StorageCacheBytes int
}

// DefaultCacheConfig is used for zero CacheConfig fields.
var DefaultCacheConfig = CacheConfig{
	CodeCacheBytes:    16 * 1024 * 1024,
	StorageCacheBytes: 4 * 1024 * 1024,
}

// CachedSource memoizes the code and storage answers of a Source. Both are
// assumed immutable for the lifetime of the cache, so a CachedSource must
// only wrap a source describing a single state snapshot. Other requests are
// forwarded unchanged.
type CachedSource struct {
	src     Source
	code    *fastcache.Cache
	storage *fastcache.Cache
}

// NewCachedSource wraps src.
func NewCachedSource(src Source, config CacheConfig) *CachedSource {
	if config.CodeCacheBytes <= 0 {
		config.CodeCacheBytes = DefaultCacheConfig.CodeCacheBytes
	}
	if config.StorageCacheBytes <= 0 {
		config.StorageCacheBytes = DefaultCacheConfig.StorageCacheBytes
	}
	return &CachedSource{
		src:     src,
		code:    fastcache.New(config.CodeCacheBytes),
		storage: fastcache.New(config.StorageCacheBytes),
	}
}

// Read implements Source.
func (c *CachedSource) Read(req *Request) ([]byte, error) {
	if req.Location != format.StoragePointerLocation {
		return c.src.Read(req)
	}
	start := time.Now()
	if word, ok := c.storage.HasGet(nil, req.Slot[:]); ok {
		cachemetrics.Record(cachemetrics.StorageCacheHit, start)
		return word, nil
	}
	word, err := c.src.Read(req)
	if err != nil {
		return nil, errors.Wrapf(err, "read storage slot %s", req.Slot.Hex())
	}
	c.storage.Set(req.Slot[:], word)
	cachemetrics.Record(cachemetrics.StorageCacheMiss, start)
	return word, nil
}

// CodeAt implements Source.
func (c *CachedSource) CodeAt(address common.Address) ([]byte, error) {
	start := time.Now()
	if code, ok := c.code.HasGet(nil, address[:]); ok {
		cachemetrics.Record(cachemetrics.CodeCacheHit, start)
		return code, nil
	}
	code, err := c.src.CodeAt(address)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch code of %s", address.Hex())
	}
	// fastcache drops entries over 64KB unless stored with SetBig, and
	// deployed code is bounded well below that.
	c.code.Set(address[:], code)
	cachemetrics.Record(cachemetrics.CodeCacheMiss, start)
	return code, nil
}

// Size implements Sizer when the wrapped source does.
func (c *CachedSource) Size(location format.PointerLocation) (int, bool) {
	if sizer, ok := c.src.(Sizer); ok {
		return sizer.Size(location)
	}
	return 0, false
}

// Reset drops every cached entry.
func (c *CachedSource) Reset() {
	c.code.Reset()
	c.storage.Reset()
}
