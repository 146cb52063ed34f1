// Copyright 2024 The vlog Authors
// This file is part of the vlog library.
//
// The vlog library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The vlog library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the vlog library. If not, see <http://www.gnu.org/licenses/>.

package vlog

import (
	"encoding/binary"
	"unsafe"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/golang/snappy"
)

// Stats reports how much space the Log actually occupies compared to a
// theoretical full snapshot per version, plus two informational columns
// that don't change the engine's in-memory representation - it never
// persists or compresses anything itself.
type Stats struct {
	SparseBytes      uint64 // (a) Σ|Log[k]| * (sizeof(index) + 2*sizeof(Value))
	FullBytes        uint64 // (b) N * S * sizeof(Value)
	ForwardOnlyBytes uint64 // (c) same as (a), omitting the Expected field
	CompressedBytes  uint64 // (d) snappy-compressed size of (a)'s sparse encoding
}

// sizeOfValue returns the width in bytes of the Value type V.
func sizeOfValue[V Value]() uint64 {
	var zero V
	return uint64(unsafe.Sizeof(zero))
}

const indexSize = 4 // uint32 position

// entrySizeCache memoizes the byte-accounting of each Log entry. Log
// entries are written once and never mutated, so once an entry's size is
// computed it never needs recomputing.
type entrySizeCache struct {
	c *fastcache.Cache
}

func newEntrySizeCache() *entrySizeCache {
	return &entrySizeCache{c: fastcache.New(4 * 1024 * 1024)}
}

type cachedSize struct {
	sparse, forwardOnly, compressed uint64
}

func (c *entrySizeCache) get(idx uint32) (cachedSize, bool) {
	var key [4]byte
	binary.BigEndian.PutUint32(key[:], idx)
	raw, ok := c.c.HasGet(nil, key[:])
	if !ok || len(raw) != 24 {
		return cachedSize{}, false
	}
	return cachedSize{
		sparse:      binary.BigEndian.Uint64(raw[0:8]),
		forwardOnly: binary.BigEndian.Uint64(raw[8:16]),
		compressed:  binary.BigEndian.Uint64(raw[16:24]),
	}, true
}

func (c *entrySizeCache) put(idx uint32, v cachedSize) {
	var key [4]byte
	binary.BigEndian.PutUint32(key[:], idx)
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], v.sparse)
	binary.BigEndian.PutUint64(buf[8:16], v.forwardOnly)
	binary.BigEndian.PutUint64(buf[16:24], v.compressed)
	c.c.Set(key[:], buf[:])
}

// encodeEntry lays out a Diff entry as (index, expected, new) triples, the
// shape StorageStats' sparse accounting charges for; it is never persisted,
// only used to size and (optionally) compress the in-memory representation.
func encodeEntry[V Value](d Diff[V]) []byte {
	vsz := int(sizeOfValue[V]())
	buf := make([]byte, 0, len(d)*(indexSize+2*vsz))
	tmp := make([]byte, 8)
	for k, pair := range d {
		var idx [4]byte
		binary.BigEndian.PutUint32(idx[:], k)
		buf = append(buf, idx[:]...)
		buf = append(buf, encodeValue(pair.Expected, tmp)...)
		buf = append(buf, encodeValue(pair.New, tmp)...)
	}
	return buf
}

func encodeValue[V Value](v V, tmp []byte) []byte {
	n := uint64(v)
	sz := int(sizeOfValue[V]())
	for i := 0; i < sz; i++ {
		tmp[i] = byte(n >> (8 * uint(i)))
	}
	return tmp[:sz]
}

// StorageStats computes the derived storage accounting, including a
// snappy-compressed sparse size. Nothing here is stored by the engine;
// it's recomputed (with memoization for immutable Log entries) on every
// call.
func (e *Engine[V]) StorageStats() Stats {
	if e.sizeCache == nil {
		e.sizeCache = newEntrySizeCache()
	}
	vsz := sizeOfValue[V]()
	var stats Stats
	for idx, entry := range e.log {
		var cs cachedSize
		if hit, ok := e.sizeCache.get(uint32(idx)); ok {
			cs = hit
		} else {
			n := uint64(len(entry))
			cs.sparse = n * (indexSize + 2*vsz)
			cs.forwardOnly = n * (indexSize + vsz)
			encoded := encodeEntry(entry)
			cs.compressed = uint64(len(snappy.Encode(nil, encoded)))
			e.sizeCache.put(uint32(idx), cs)
		}
		stats.SparseBytes += cs.sparse
		stats.ForwardOnlyBytes += cs.forwardOnly
		stats.CompressedBytes += cs.compressed
	}
	stats.FullBytes = uint64(e.version) * uint64(e.size) * vsz
	return stats
}
