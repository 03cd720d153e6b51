// Copyright 2025 Vyasa Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/vyasa-labs/gitasage/core"
)

// MUS serializers for badger values, composed by hand from mus-go
// primitives. Field order is the wire format; never reorder fields without a
// migration.

// MarshalTurn serializes a Turn to bytes.
func MarshalTurn(turn *core.Turn) []byte {
	buf := make([]byte, sizeTurn(turn))
	marshalTurn(turn, buf)
	return buf
}

// UnmarshalTurn deserializes a Turn from bytes.
func UnmarshalTurn(data []byte) (*core.Turn, error) {
	turn := &core.Turn{}
	n := 0

	micros, size, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	n += size
	turn.Timestamp = time.UnixMicro(micros).UTC()

	if turn.UserQuery, size, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += size

	if turn.BotResponse, size, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += size

	lang, _, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	turn.Language = core.Language(lang)

	return turn, nil
}

func sizeTurn(turn *core.Turn) int {
	return varint.Int64.Size(turn.Timestamp.UnixMicro()) +
		ord.String.Size(turn.UserQuery) +
		ord.String.Size(turn.BotResponse) +
		ord.String.Size(string(turn.Language))
}

func marshalTurn(turn *core.Turn, buf []byte) {
	n := varint.Int64.Marshal(turn.Timestamp.UnixMicro(), buf)
	n += ord.String.Marshal(turn.UserQuery, buf[n:])
	n += ord.String.Marshal(turn.BotResponse, buf[n:])
	ord.String.Marshal(string(turn.Language), buf[n:])
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, sizeChunk(chunk))
	marshalChunk(chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk := &core.Chunk{}
	n := 0

	var size int
	var err error
	if chunk.ID, size, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += size

	if chunk.Text, size, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += size

	if chunk.Vector, size, err = unmarshalVector(data[n:]); err != nil {
		return nil, err
	}
	n += size

	if chunk.Metadata, _, err = unmarshalMetadata(data[n:]); err != nil {
		return nil, err
	}

	return chunk, nil
}

func sizeChunk(chunk *core.Chunk) int {
	return ord.String.Size(chunk.ID) +
		ord.String.Size(chunk.Text) +
		sizeVector(chunk.Vector) +
		sizeMetadata(chunk.Metadata)
}

func marshalChunk(chunk *core.Chunk, buf []byte) {
	n := ord.String.Marshal(chunk.ID, buf)
	n += ord.String.Marshal(chunk.Text, buf[n:])
	n += marshalVector(chunk.Vector, buf[n:])
	marshalMetadata(chunk.Metadata, buf[n:])
}

// MarshalFeedback serializes a Feedback to bytes.
func MarshalFeedback(fb *core.Feedback) []byte {
	buf := make([]byte, sizeFeedback(fb))
	marshalFeedback(fb, buf)
	return buf
}

// UnmarshalFeedback deserializes a Feedback from bytes.
func UnmarshalFeedback(data []byte) (*core.Feedback, error) {
	fb := &core.Feedback{}
	n := 0

	var size int
	var err error
	if fb.SessionID, size, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += size

	if fb.Rating, size, err = varint.Int.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += size

	if fb.Text, size, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += size

	if fb.Metadata, size, err = unmarshalMetadata(data[n:]); err != nil {
		return nil, err
	}
	n += size

	micros, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	fb.Timestamp = time.UnixMicro(micros).UTC()

	return fb, nil
}

func sizeFeedback(fb *core.Feedback) int {
	return ord.String.Size(fb.SessionID) +
		varint.Int.Size(fb.Rating) +
		ord.String.Size(fb.Text) +
		sizeMetadata(fb.Metadata) +
		varint.Int64.Size(fb.Timestamp.UnixMicro())
}

func marshalFeedback(fb *core.Feedback, buf []byte) {
	n := ord.String.Marshal(fb.SessionID, buf)
	n += varint.Int.Marshal(fb.Rating, buf[n:])
	n += ord.String.Marshal(fb.Text, buf[n:])
	n += marshalMetadata(fb.Metadata, buf[n:])
	varint.Int64.Marshal(fb.Timestamp.UnixMicro(), buf[n:])
}

// Vector encoding: varint length prefix followed by the IEEE 754 bits of
// each element.

func sizeVector(vector []float32) int {
	size := varint.Int.Size(len(vector))
	for _, v := range vector {
		size += varint.Uint32.Size(math.Float32bits(v))
	}
	return size
}

func marshalVector(vector []float32, buf []byte) int {
	n := varint.Int.Marshal(len(vector), buf)
	for _, v := range vector {
		n += varint.Uint32.Marshal(math.Float32bits(v), buf[n:])
	}
	return n
}

func unmarshalVector(data []byte) ([]float32, int, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, 0, err
	}
	if count < 0 {
		return nil, 0, ErrTruncatedData
	}
	if count == 0 {
		return nil, n, nil
	}

	vector := make([]float32, count)
	for i := 0; i < count; i++ {
		bits, size, err := varint.Uint32.Unmarshal(data[n:])
		if err != nil {
			return nil, 0, err
		}
		n += size
		vector[i] = math.Float32frombits(bits)
	}
	return vector, n, nil
}

// Metadata encoding: varint pair count followed by key/value strings.

func sizeMetadata(md map[string]string) int {
	size := varint.Int.Size(len(md))
	for k, v := range md {
		size += ord.String.Size(k) + ord.String.Size(v)
	}
	return size
}

func marshalMetadata(md map[string]string, buf []byte) int {
	n := varint.Int.Marshal(len(md), buf)
	// Deterministic order keeps serialized bytes reproducible.
	keys := sortedKeys(md)
	for _, k := range keys {
		n += ord.String.Marshal(k, buf[n:])
		n += ord.String.Marshal(md[k], buf[n:])
	}
	return n
}

func unmarshalMetadata(data []byte) (map[string]string, int, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, 0, err
	}
	if count < 0 {
		return nil, 0, ErrTruncatedData
	}
	if count == 0 {
		return nil, n, nil
	}

	md := make(map[string]string, count)
	for i := 0; i < count; i++ {
		k, size, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, 0, err
		}
		n += size

		v, size, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, 0, err
		}
		n += size

		md[k] = v
	}
	return md, n, nil
}

func sortedKeys(md map[string]string) []string {
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
