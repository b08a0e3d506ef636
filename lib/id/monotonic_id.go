package id

import (
	"strconv"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

const cacheLinePadSize = unsafe.Sizeof(cpu.CacheLinePad{})

// monotonicNonZeroID only increases, if it overflows it restarts from 1.
// The counter occupies a whole cache line so that concurrent
// generators never share one (false sharing).
// L1D cache: cat /sys/devices/system/cpu/cpu0/cache/index0/coherency_line_size
type monotonicNonZeroID struct {
	_   [cacheLinePadSize - unsafe.Sizeof(*new(uint64))]byte
	val atomic.Uint64
	_   [cacheLinePadSize - unsafe.Sizeof(*new(uint64))]byte
}

func (id *monotonicNonZeroID) next() uint64 {
	var v uint64
	if v = id.val.Add(1); v == 0 {
		v = id.val.Add(1)
	}
	return v
}

// MonotonicNonZeroID starts from start+1. Zero is never generated.
func MonotonicNonZeroID(start uint64) Generator {
	src := &monotonicNonZeroID{}
	src.val.Store(start)
	return &idDelegator{
		number: src.next,
		str: func() string {
			return strconv.FormatUint(src.next(), 10)
		},
	}
}
