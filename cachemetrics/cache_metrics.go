package cachemetrics

import (
	"time"

	"github.com/ethereum/go-ethereum/metrics"
)

type cacheLayerName string

const (
	CodeCacheHit       cacheLayerName = "CODE_CACHE_HIT"
	CodeCacheMiss      cacheLayerName = "CODE_CACHE_MISS"
	StorageCacheHit    cacheLayerName = "STORAGE_CACHE_HIT"
	StorageCacheMiss   cacheLayerName = "STORAGE_CACHE_MISS"
	ContextCacheHit    cacheLayerName = "CONTEXT_CACHE_HIT"
	ContextCacheMiss   cacheLayerName = "CONTEXT_CACHE_MISS"
	ContextCacheBypass cacheLayerName = "CONTEXT_CACHE_BYPASS"
)

var (
	codeHitTimer     = metrics.NewRegisteredTimer("codec/cache/cost/code/hit", nil)
	codeMissTimer    = metrics.NewRegisteredTimer("codec/cache/cost/code/miss", nil)
	storageHitTimer  = metrics.NewRegisteredTimer("codec/cache/cost/storage/hit", nil)
	storageMissTimer = metrics.NewRegisteredTimer("codec/cache/cost/storage/miss", nil)
	contextHitTimer  = metrics.NewRegisteredTimer("codec/cache/cost/context/hit", nil)
	contextMissTimer = metrics.NewRegisteredTimer("codec/cache/cost/context/miss", nil)

	codeHitCounter       = metrics.NewRegisteredCounter("codec/cache/count/code/hit", nil)
	codeMissCounter      = metrics.NewRegisteredCounter("codec/cache/count/code/miss", nil)
	storageHitCounter    = metrics.NewRegisteredCounter("codec/cache/count/storage/hit", nil)
	storageMissCounter   = metrics.NewRegisteredCounter("codec/cache/count/storage/miss", nil)
	contextHitCounter    = metrics.NewRegisteredCounter("codec/cache/count/context/hit", nil)
	contextMissCounter   = metrics.NewRegisteredCounter("codec/cache/count/context/miss", nil)
	contextBypassCounter = metrics.NewRegisteredCounter("codec/cache/count/context/bypass", nil)

	codeMissCostCounter    = metrics.NewRegisteredCounter("codec/cache/totalcost/code/miss", nil)
	storageMissCostCounter = metrics.NewRegisteredCounter("codec/cache/totalcost/storage/miss", nil)
	contextMissCostCounter = metrics.NewRegisteredCounter("codec/cache/totalcost/context/miss", nil)
)

// mark the hit and miss counts of each cache
func RecordCacheDepth(metricsName cacheLayerName) {
	switch metricsName {
	case CodeCacheHit:
		codeHitCounter.Inc(1)
	case CodeCacheMiss:
		codeMissCounter.Inc(1)
	case StorageCacheHit:
		storageHitCounter.Inc(1)
	case StorageCacheMiss:
		storageMissCounter.Inc(1)
	case ContextCacheHit:
		contextHitCounter.Inc(1)
	case ContextCacheMiss:
		contextMissCounter.Inc(1)
	case ContextCacheBypass:
		contextBypassCounter.Inc(1)
	}
}

// mark the delays of each cache outcome
func RecordCacheMetrics(metricsName cacheLayerName, start time.Time) {
	switch metricsName {
	case CodeCacheHit:
		recordCost(codeHitTimer, start)
	case CodeCacheMiss:
		recordCost(codeMissTimer, start)
	case StorageCacheHit:
		recordCost(storageHitTimer, start)
	case StorageCacheMiss:
		recordCost(storageMissTimer, start)
	case ContextCacheHit:
		recordCost(contextHitTimer, start)
	case ContextCacheMiss:
		recordCost(contextMissTimer, start)
	}
}

// accumulate the total delays spent behind cache misses
func RecordTotalCosts(metricsName cacheLayerName, start time.Time) {
	switch metricsName {
	case CodeCacheMiss:
		accumulateCost(codeMissCostCounter, start)
	case StorageCacheMiss:
		accumulateCost(storageMissCostCounter, start)
	case ContextCacheMiss:
		accumulateCost(contextMissCostCounter, start)
	}
}

// Record marks one cache outcome: its count, its delay and, for misses, the
// accumulated cost.
func Record(metricsName cacheLayerName, start time.Time) {
	RecordCacheDepth(metricsName)
	RecordCacheMetrics(metricsName, start)
	RecordTotalCosts(metricsName, start)
}

func recordCost(timer metrics.Timer, start time.Time) {
	timer.Update(time.Since(start))
}

func accumulateCost(totalcost metrics.Counter, start time.Time) {
	totalcost.Inc(time.Since(start).Nanoseconds())
}
