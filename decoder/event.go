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
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bnb-chain/bsc-codec/abidata"
	"github.com/bnb-chain/bsc-codec/allocate"
	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/log"
	"github.com/bnb-chain/bsc-codec/read"
)

// maxTopics is the most topics a log can carry.
const maxTopics = 4

// LogDecoding is one possible interpretation of an event log.
type LogDecoding struct {
	Anonymous bool
	Class     *format.ContractType
	Name      string
	Selector  common.Hash // zero for anonymous events
	// Abi is the event entry of the emitting context's ABI, if known.
	Abi       *abi.Event
	Arguments []Argument
}

// DecodeEvent decodes the log held by info.State as an event emitted by the
// contract at address. Every event layout whose selector and topic count
// fit is tried in strict mode; the ones that decode cleanly are returned.
// Layouts of the emitting contract come first, and once one of them
// decodes, non-anonymous layouts of other contracts are no longer tried.
// Anonymous layouts are tried whenever their topic count fits.
func DecodeEvent(info *evm.DecoderInfo, address common.Address) ([]*LogDecoding, error) {
	eventCounter.Inc(1)
	topics := topicCount(info)
	var selector common.Hash
	if topics > 0 {
		raw, rerr := read.Read(&format.EventTopicPointer{Topic: 0}, info.State)
		if rerr != nil {
			return nil, rerr
		}
		selector = common.BytesToHash(raw)
	}

	var emitter *evm.Context
	if code, err := info.State.CodeAt(address); err == nil {
		emitter = info.Contexts.MatchDeployed(code)
	} else {
		info.Log().Debug("Failed to fetch emitter code", "address", address, "err", err)
	}

	var named, anonymous []*allocate.EventAllocation
	if info.Allocations != nil {
		for _, event := range info.Allocations.Events {
			switch {
			case event.TopicCount != topics:
			case event.Anonymous:
				anonymous = append(anonymous, event)
			case topics > 0 && event.Selector == selector:
				named = append(named, event)
			}
		}
	}

	var decodings []*LogDecoding
	matchedEmitter := false
	for _, group := range [][]*allocate.EventAllocation{named, anonymous} {
		for _, event := range emitterFirst(group, emitter) {
			ownEvent := emitter != nil && event.ContextHash == emitter.Context
			if matchedEmitter && !ownEvent && !event.Anonymous {
				continue
			}
			decoding, err := decodeEventWith(event, info)
			if err != nil {
				if isStop(err) {
					info.Log().Trace("Event layout rejected", "event", event.Name, "contract", event.ContractName, "err", err)
					continue
				}
				return nil, err
			}
			if ownEvent && !event.Anonymous {
				matchedEmitter = true
			}
			decodings = append(decodings, decoding)
		}
	}
	if len(decodings) == 0 {
		eventMissCounter.Inc(1)
	}
	log.DebugIf(info.Log(), len(decodings) == 0, "No event layout matched", "address", address, "topics", topics, "candidates", len(named)+len(anonymous))
	return decodings, nil
}

// topicCount counts the topics the source can supply.
func topicCount(info *evm.DecoderInfo) int {
	if sizer, ok := info.Sizer(); ok {
		if n, known := sizer.Size(format.EventTopicPointerLocation); known {
			return n
		}
	}
	n := 0
	for n < maxTopics {
		if _, err := read.Read(&format.EventTopicPointer{Topic: n}, info.State); err != nil {
			break
		}
		n++
	}
	return n
}

// emitterFirst orders the layouts of the emitting context before the others,
// keeping the order within each part.
func emitterFirst(events []*allocate.EventAllocation, emitter *evm.Context) []*allocate.EventAllocation {
	if emitter == nil {
		return events
	}
	ordered := make([]*allocate.EventAllocation, 0, len(events))
	for _, event := range events {
		if event.ContextHash == emitter.Context {
			ordered = append(ordered, event)
		}
	}
	for _, event := range events {
		if event.ContextHash != emitter.Context {
			ordered = append(ordered, event)
		}
	}
	return ordered
}

func decodeEventWith(event *allocate.EventAllocation, info *evm.DecoderInfo) (*LogDecoding, error) {
	decoding := &LogDecoding{
		Anonymous: event.Anonymous,
		Name:      event.Name,
		Selector:  event.Selector,
		Class:     &format.ContractType{TypeName: event.ContractName},
	}
	if ctx := info.Contexts.Get(event.ContextHash); ctx != nil {
		decoding.Class = ctx.Class()
		if ctx.Abi != nil && !event.Anonymous {
			if abiEvent, err := ctx.Abi.EventByID(event.Selector); err == nil {
				decoding.Abi = abiEvent
			}
		}
	}

	options := evm.DecoderOptions{StrictAbiMode: true}
	for _, argument := range event.Arguments {
		var (
			value format.Result
			err   error
		)
		if argument.Indexed {
			value, err = abidata.DecodeTopic(argument.Type, &format.EventTopicPointer{Topic: argument.Topic}, info, options)
		} else {
			t := format.SpecifyLocation(argument.Type, format.MemoryLocation)
			value, err = Decode(t, &format.EventDataPointer{Start: argument.Start, Length: argument.Length}, info, options)
		}
		if err != nil {
			return nil, err
		}
		decoding.Arguments = append(decoding.Arguments, Argument{Name: argument.Name, Value: value, Indexed: argument.Indexed})
	}
	return decoding, nil
}
