package badger

import (
	"encoding/binary"
	"time"

	"github.com/poiesic/bazaar/core"
)

// Key prefixes for different data types
const (
	listingPrefix    = "lst:"
	listingIDSeq     = "lstseq"
	ticketPrefix     = "tkt:"
	ticketDatePrefix = "tktd:"
)

// makeListingKey generates a key for a listing by ID.
// Format: prefix + big-endian id, so prefix iteration follows insertion order.
func makeListingKey(id core.ID) []byte {
	buf := make([]byte, len(listingPrefix)+8)
	offset := copy(buf, listingPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeTicketKey generates a key for a ticket by ID.
func makeTicketKey(id core.ID) []byte {
	buf := make([]byte, len(ticketPrefix)+8)
	offset := copy(buf, ticketPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeTicketDateKey generates a composite key for the ticket date index.
// Format: prefix:timestamp:id
func makeTicketDateKey(timestamp time.Time, id core.ID) []byte {
	buf := make([]byte, len(ticketDatePrefix)+16)
	offset := copy(buf, ticketDatePrefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
