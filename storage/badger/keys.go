package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix = "chkrec"
	sectionPrefix     = "chksec"
	turnRecordPrefix  = "trnrec"
	turnIDSeq         = "trnrecseq"
	feedbackPrefix    = "fdbrec"
	feedbackIDSeq     = "fdbrecseq"
)

// makeChunkKey generates a key for a corpus chunk by its string ID.
func makeChunkKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", chunkRecordPrefix, id))
}

// makeSectionKey generates a key marking a chapter number as present in the
// corpus.
// Format: prefix:chapter (BigEndian so iteration yields ascending order)
func makeSectionKey(chapter int) []byte {
	prefix := sectionPrefix + ":"
	buf := make([]byte, len(prefix)+4)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[offset:], uint32(chapter))
	return buf
}

// sectionFromKey recovers the chapter number from a section key.
func sectionFromKey(key []byte) int {
	return int(binary.BigEndian.Uint32(key[len(sectionPrefix)+1:]))
}

// makeTurnKey generates a composite key for a session turn.
// Format: prefix:sessionID:timestamp:seq
// Timestamp and sequence are BigEndian so lexicographic iteration over a
// session prefix yields chronological order, with the sequence breaking ties
// between turns appended within the same microsecond.
func makeTurnKey(sessionID string, timestampMicros int64, seq uint64) []byte {
	prefix := fmt.Sprintf("%s:%s:", turnRecordPrefix, sessionID)
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestampMicros))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeTurnSessionPrefix generates the iteration prefix covering all turns of
// one session.
func makeTurnSessionPrefix(sessionID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", turnRecordPrefix, sessionID))
}

// makeFeedbackKey generates a key for a feedback record.
// Format: prefix:timestamp:seq
func makeFeedbackKey(timestampMicros int64, seq uint64) []byte {
	prefix := feedbackPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestampMicros))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}
