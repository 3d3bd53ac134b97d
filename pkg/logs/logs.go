// Package logs implements Ethereum event log topic and data encoding and
// decoding per the indexed-event rules of the Solidity ABI.
package logs

import (
	"github.com/alanyoungcy/ethcore/pkg/abi"
	"github.com/alanyoungcy/ethcore/pkg/ecode"
	"github.com/alanyoungcy/ethcore/pkg/evmtype"
)

// Event describes one event declaration: its name, its full ordered input
// list (indexed and non-indexed interleaved as declared), and whether it
// omits the topic-0 signature hash.
type Event struct {
	Name      string
	Inputs    []abi.Parameter
	Anonymous bool
}

// Log is an assembled event log record: ordered topics (topic 0 first,
// unless Anonymous) and the ABI-encoded non-indexed data block.
type Log struct {
	Topics []evmtype.Hash
	Data   []byte
}

func (e Event) indexedInputs() []abi.Parameter {
	var out []abi.Parameter
	for _, p := range e.Inputs {
		if p.Indexed {
			out = append(out, p)
		}
	}
	return out
}

func (e Event) dataInputs() []abi.Parameter {
	var out []abi.Parameter
	for _, p := range e.Inputs {
		if !p.Indexed {
			out = append(out, p)
		}
	}
	return out
}

// Encode assembles a Log from values, one per entry in e.Inputs in
// declaration order.
func Encode(e Event, values []abi.Value) (Log, error) {
	if len(values) != len(e.Inputs) {
		return Log{}, ecode.New(ecode.Schema, "logs: Encode", "value/parameter arity mismatch")
	}

	var topics []evmtype.Hash
	if !e.Anonymous {
		topics = append(topics, abi.EventTopic0(e.Name, e.Inputs))
	}

	var dataParams []abi.Parameter
	var dataValues []abi.Value
	for i, p := range e.Inputs {
		if !p.Indexed {
			dataParams = append(dataParams, p)
			dataValues = append(dataValues, values[i])
			continue
		}
		topic, err := encodeTopic(p, values[i])
		if err != nil {
			return Log{}, err
		}
		topics = append(topics, topic)
	}

	data, err := abi.Encode(dataParams, dataValues)
	if err != nil {
		return Log{}, err
	}
	return Log{Topics: topics, Data: data}, nil
}

// encodeTopic produces the single topic word for one indexed parameter:
// static types pad/sign-extend in place; string, bytes, arrays, and tuples
// (all of which would otherwise need unbounded topic space) store
// keccak256 of their value/encoding instead.
func encodeTopic(p abi.Parameter, v abi.Value) (evmtype.Hash, error) {
	switch p.Type {
	case abi.KindString:
		return evmtype.Keccak256([]byte(v.Str)), nil
	case abi.KindBytes:
		return evmtype.Keccak256(v.Bytes), nil
	case abi.KindFixedArray, abi.KindDynamicArray, abi.KindTuple:
		encoded, err := abi.Encode([]abi.Parameter{p}, []abi.Value{v})
		if err != nil {
			return evmtype.Hash{}, err
		}
		return evmtype.Keccak256(encoded), nil
	default:
		word, err := abi.EncodeStaticWord(p, v)
		if err != nil {
			return evmtype.Hash{}, err
		}
		var h evmtype.Hash
		copy(h[:], word)
		return h, nil
	}
}

// Decode reverses Encode given the Log it produced. Dynamic indexed
// parameters remain opaque: only their topic hash is recoverable, so the
// corresponding Value carries just that hash in its Bytes field.
func Decode(e Event, l Log) ([]abi.Value, error) {
	expectedTopics := len(e.indexedInputs())
	if !e.Anonymous {
		expectedTopics++
	}
	if len(l.Topics) != expectedTopics {
		return nil, ecode.New(ecode.Protocol, "logs: Decode", "topic count mismatch")
	}

	dataParams := e.dataInputs()
	dataValues, err := abi.Decode(dataParams, l.Data, abi.DefaultDecodeOptions())
	if err != nil {
		return nil, err
	}

	values := make([]abi.Value, len(e.Inputs))
	topicIdx := 0
	if !e.Anonymous {
		topicIdx = 1 // topic 0 is the signature hash, not a value
	}
	dataIdx := 0
	for i, p := range e.Inputs {
		if p.Indexed {
			topic := l.Topics[topicIdx]
			topicIdx++
			switch p.Type {
			case abi.KindString, abi.KindBytes, abi.KindFixedArray, abi.KindDynamicArray, abi.KindTuple:
				values[i] = abi.Value{Bytes: topic.Bytes()}
			default:
				v, err := abi.DecodeStaticWord(p, topic.Bytes())
				if err != nil {
					return nil, err
				}
				values[i] = v
			}
			continue
		}
		values[i] = dataValues[dataIdx]
		dataIdx++
	}
	return values, nil
}
