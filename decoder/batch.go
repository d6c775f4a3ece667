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

package decoder

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/bnb-chain/bsc-codec/common/gopool"
	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/log"
	"github.com/bnb-chain/bsc-codec/read"
	"github.com/bnb-chain/bsc-codec/tie"
)

var errNoTopic = errors.New("no such topic")

// logSource serves the topics and data of one log and defers every other
// request to the source it wraps.
type logSource struct {
	read.Source
	log *types.Log
}

func (s *logSource) Read(req *read.Request) ([]byte, error) {
	switch req.Location {
	case format.EventTopicPointerLocation:
		if req.Start < 0 || req.Start >= len(s.log.Topics) {
			return nil, errNoTopic
		}
		return s.log.Topics[req.Start].Bytes(), nil
	case format.EventDataPointerLocation:
		out := make([]byte, req.Length)
		if req.Start < len(s.log.Data) {
			copy(out, s.log.Data[req.Start:])
		}
		return out, nil
	}
	return s.Source.Read(req)
}

func (s *logSource) Size(location format.PointerLocation) (int, bool) {
	switch location {
	case format.EventTopicPointerLocation:
		return len(s.log.Topics), true
	case format.EventDataPointerLocation:
		return len(s.log.Data), true
	}
	if sizer, ok := s.Source.(read.Sizer); ok {
		return sizer.Size(location)
	}
	return 0, false
}

// DecodeLogs decodes every log with DecodeEvent. The logs are decoded
// concurrently; info.State only needs to supply the code of the emitters.
// The result holds the decodings of logs[i] at index i.
func DecodeLogs(ctx context.Context, info *evm.DecoderInfo, logs []*types.Log) ([][]*LogDecoding, error) {
	defer logBatchTimer.UpdateSince(time.Now())

	info.Log().Trace("Decoding logs", "count", len(logs), "running", gopool.Running(), "free", gopool.Free())
	results := make([][]*LogDecoding, len(logs))
	var errs sync.Map
	gopool.Each(len(logs), func(i int) {
		if ctx.Err() != nil {
			return
		}
		logInfo := *info
		logInfo.State = &logSource{Source: info.State, log: logs[i]}
		decodings, err := DecodeEvent(&logInfo, logs[i].Address)
		log.WarnIf(info.Log(), err != nil, "Failed to decode log", "index", i, "tx", logs[i].TxHash, "err", err)
		if err != nil {
			errs.Store(i, err)
			return
		}
		results[i] = decodings
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i := range logs {
		if val, exist := errs.Load(i); exist {
			return nil, errors.Wrapf(val.(error), "log %d", i)
		}
	}
	return results, nil
}

// Variable is a named value to decode.
type Variable struct {
	Name    string
	Type    format.Type
	Pointer format.Pointer
}

// DecodeVariables decodes the variables concurrently and ties each result,
// so circular memory values come back as back-references.
func DecodeVariables(ctx context.Context, info *evm.DecoderInfo, variables []Variable, options evm.DecoderOptions) ([]format.NameValuePair, error) {
	defer variableTimer.UpdateSince(time.Now())

	results := make([]format.NameValuePair, len(variables))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(gopool.Threads(len(variables)))
	for i, variable := range variables {
		i, variable := i, variable
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			value, err := Decode(variable.Type, variable.Pointer, info, options)
			if err != nil {
				return errors.Wrapf(err, "variable %s", variable.Name)
			}
			results[i] = format.NameValuePair{Name: variable.Name, Value: tie.Tie(value)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
