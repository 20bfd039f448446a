package cryptox

import (
	"encoding/hex"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// MaxKeyInputLen bounds nodeUUID+username. It matches a 64-byte buffer with a
// terminator, so the hex form never exceeds 126 digits.
const MaxKeyInputLen = 63

// DeriveUserKey builds the per-identity symmetric key from the node UUID and
// the username. The concatenation is hex encoded and the hex digits are then
// decoded pair by pair, so len(key) == len(hex)/2. No randomness is involved:
// the same node and user always get the same key.
//
// Inputs longer than MaxKeyInputLen fail with common.ErrInputTooLong instead of
// being truncated.
func DeriveUserKey(nodeUUID, username string) ([]byte, error) {
	input := nodeUUID + username
	if input == "" {
		return nil, fmt.Errorf("%w: empty key material", common.ErrInvalidInput)
	}
	if len(input) > MaxKeyInputLen {
		return nil, fmt.Errorf("%w: key material is %d bytes, max %d", common.ErrInputTooLong, len(input), MaxKeyInputLen)
	}

	digits := []byte(hex.EncodeToString([]byte(input)))

	key := make([]byte, len(digits)/2)
	if _, err := hex.Decode(key, digits[:len(key)*2]); err != nil {
		return nil, fmt.Errorf("decode key digits: %w", err)
	}

	return key, nil
}
