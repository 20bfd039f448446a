// Package cryptox holds the client-side crypto primitives: identity key
// derivation, content fingerprints, password hashing and the in-place file
// cipher.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/filex"
)

const (
	// BlockSize is the cipher block size; files are transformed in whole blocks.
	BlockSize = aes.BlockSize

	// KeySize is the number of key bytes fed to AES (AES-128). Derived keys
	// are copied into a zeroed KeySize array: shorter ones are zero-extended,
	// longer ones truncated.
	KeySize = 16

	// MaxFileSize is the largest plaintext the engine accepts.
	MaxFileSize int64 = 100 * 1024 * 1024

	// chunkSize is how much is read and written per syscall. Must stay a
	// multiple of BlockSize.
	chunkSize = 64 * 1024
)

func newBlock(key []byte) (cipher.Block, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty key", common.ErrInvalidInput)
	}
	var k [KeySize]byte
	copy(k[:], key)
	defer common.WipeByteArray(k[:])
	return aes.NewCipher(k[:])
}

// EncryptInPlace encrypts the file at path block by block, overwriting it.
//
// When the last block is short by n bytes it is padded with n bytes of value
// n before encryption. A file whose length is already a multiple of BlockSize
// gets no extra block. There is no temporary file: a crash mid-way leaves the
// file partially encrypted.
func EncryptInPlace(path string, key []byte) error {
	size, err := filex.CheckSize(path, MaxFileSize)
	if err != nil {
		return err
	}

	block, err := newBlock(key)
	if err != nil {
		return err
	}

	return transform(path, size, func(buf []byte, last bool) ([]byte, error) {
		if last && len(buf)%BlockSize != 0 {
			pad := BlockSize - len(buf)%BlockSize
			for i := 0; i < pad; i++ {
				buf = append(buf, byte(pad))
			}
		}
		for i := 0; i < len(buf); i += BlockSize {
			block.Encrypt(buf[i:i+BlockSize], buf[i:i+BlockSize])
		}
		return buf, nil
	})
}

// DecryptInPlace reverses EncryptInPlace with the same key.
//
// After decryption a trailing pad is removed when the last byte n is in
// 1..BlockSize-1 and the last n bytes all equal n. Because aligned inputs were
// never padded, an aligned plaintext that happens to end in such a pattern
// (e.g. a single 0x01) loses those bytes; every non-aligned plaintext round
// trips exactly. A wrong key is not detected: the output is garbage.
func DecryptInPlace(path string, key []byte) error {
	size, err := filex.CheckSize(path, MaxFileSize+BlockSize)
	if err != nil {
		return err
	}
	if size%BlockSize != 0 {
		return fmt.Errorf("%w: %s is %d bytes, not a multiple of %d", common.ErrInvalidInput, path, size, BlockSize)
	}

	block, err := newBlock(key)
	if err != nil {
		return err
	}

	var trim int
	err = transform(path, size, func(buf []byte, last bool) ([]byte, error) {
		for i := 0; i < len(buf); i += BlockSize {
			block.Decrypt(buf[i:i+BlockSize], buf[i:i+BlockSize])
		}
		if last {
			trim = padLen(buf)
		}
		return buf, nil
	})
	if err != nil {
		return err
	}

	if trim > 0 {
		if err := os.Truncate(path, size-int64(trim)); err != nil {
			return fmt.Errorf("%w: truncate %s: %w", common.ErrIO, path, err)
		}
	}
	return nil
}

// padLen returns the length of a valid trailing pad in b, or 0.
func padLen(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	n := int(b[len(b)-1])
	if n < 1 || n >= BlockSize || n > len(b) {
		return 0
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return 0
		}
	}
	return n
}

type chunkFunc func(buf []byte, last bool) ([]byte, error)

// transform walks the file in chunkSize pieces, hands each piece to fn and
// writes the result back at the same offset.
func transform(path string, size int64, fn chunkFunc) (err error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", common.ErrIO, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", common.ErrIO, path, cerr)
		}
	}()

	buf := make([]byte, chunkSize, chunkSize+BlockSize)

	for off := int64(0); off < size; off += chunkSize {
		n := int64(chunkSize)
		if size-off < n {
			n = size - off
		}

		chunk := buf[:n]
		if _, err := f.ReadAt(chunk, off); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: read %s at %d: %w", common.ErrIO, path, off, err)
		}

		out, err := fn(chunk, off+n >= size)
		if err != nil {
			return err
		}

		if _, err := f.WriteAt(out, off); err != nil {
			return fmt.Errorf("%w: write %s at %d: %w", common.ErrIO, path, off, err)
		}
	}

	return nil
}
