package transforms

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// OperationID returns the id under which the printed operation text is persisted.
func OperationID(text string) string {
	return strconv.FormatUint(xxhash.Sum64String(text), 16)
}
