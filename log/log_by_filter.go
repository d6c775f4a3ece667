// Package log provides filtered logging helpers for decoders, which trace
// from hot recursive paths and must not flood the caller's logger.
package log

import (
	"log/slog"
	"sync/atomic"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// LoggerFilter is used to print log when check func returns true.
type LoggerFilter interface {
	check() bool
}

// EveryN passes one call in N. The zero value passes every call.
type EveryN struct {
	N       uint32
	counter uint32
}

func (e *EveryN) check() bool {
	if e == nil || e.N == 0 {
		return true
	}
	c := atomic.AddUint32(&e.counter, 1)
	return c%e.N == 0
}

var _ LoggerFilter = &EveryN{}

type ifCondition struct {
	Condition bool
}

func (i *ifCondition) check() bool {
	if i == nil || i.Condition {
		return true
	}
	return false
}

var _ LoggerFilter = &ifCondition{}

func TraceBy(logger ethlog.Logger, filter LoggerFilter, msg string, ctx ...interface{}) {
	if filter == nil || filter.check() {
		logger.Write(ethlog.LevelTrace, msg, ctx...)
	}
}

func DebugBy(logger ethlog.Logger, filter LoggerFilter, msg string, ctx ...interface{}) {
	if filter == nil || filter.check() {
		logger.Write(slog.LevelDebug, msg, ctx...)
	}
}

func WarnBy(logger ethlog.Logger, filter LoggerFilter, msg string, ctx ...interface{}) {
	if filter == nil || filter.check() {
		logger.Write(slog.LevelWarn, msg, ctx...)
	}
}

func TraceIf(logger ethlog.Logger, condition bool, msg string, ctx ...interface{}) {
	filter := &ifCondition{condition}
	TraceBy(logger, filter, msg, ctx...)
}

func DebugIf(logger ethlog.Logger, condition bool, msg string, ctx ...interface{}) {
	filter := &ifCondition{condition}
	DebugBy(logger, filter, msg, ctx...)
}

func WarnIf(logger ethlog.Logger, condition bool, msg string, ctx ...interface{}) {
	filter := &ifCondition{condition}
	WarnBy(logger, filter, msg, ctx...)
}
