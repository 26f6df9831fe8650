package output

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	idMu   sync.Mutex
	idMono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// Monotonic keeps IDs from the same millisecond in order.
	idMono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// NewSessionID returns a time-sortable ULID identifying one watch session
func NewSessionID(now time.Time) string {
	idMu.Lock()
	defer idMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(now.UTC()), idMono)
	if err != nil {
		// Only possible if the clock runs backwards within one millisecond
		// and the monotonic entropy overflows.
		return ulid.Make().String()
	}
	return id.String()
}
