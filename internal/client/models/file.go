package models

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// FileType tells whether the file on disk is currently encrypted.
type FileType uint8

const (
	FileTypeEncrypted FileType = 0x01
	FileTypePlain     FileType = 0x02
)

func (t FileType) String() string {
	switch t {
	case FileTypeEncrypted:
		return "encrypted"
	case FileTypePlain:
		return "plain"
	default:
		return fmt.Sprintf("FileType(%d)", uint8(t))
	}
}

// Fixed on-disk field widths. A field must leave room for at least one NUL.
const (
	NameSize   = 255
	PathSize   = 4096
	RecordSize = NameSize + PathSize + 8 + 1
)

// FileRecord is the unit persisted locally and replicated remotely.
// Fingerprint is taken over the encrypted bytes.
type FileRecord struct {
	Name        string
	Path        string
	Fingerprint uint64
	Type        FileType
}

// MarshalBinary encodes r into the fixed RecordSize layout:
// name, path (both NUL padded), fingerprint (little endian), type.
func (r *FileRecord) MarshalBinary() ([]byte, error) {
	if err := checkField("name", r.Name, NameSize); err != nil {
		return nil, err
	}
	if err := checkField("path", r.Path, PathSize); err != nil {
		return nil, err
	}

	buf := make([]byte, RecordSize)
	copy(buf[:NameSize], r.Name)
	copy(buf[NameSize:NameSize+PathSize], r.Path)
	binary.LittleEndian.PutUint64(buf[NameSize+PathSize:], r.Fingerprint)
	buf[RecordSize-1] = byte(r.Type)

	return buf, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary.
func (r *FileRecord) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf("%w: record is %d bytes, want %d", common.ErrInvalidInput, len(data), RecordSize)
	}

	r.Name = cstring(data[:NameSize])
	r.Path = cstring(data[NameSize : NameSize+PathSize])
	r.Fingerprint = binary.LittleEndian.Uint64(data[NameSize+PathSize:])
	r.Type = FileType(data[RecordSize-1])

	return nil
}

func checkField(name, v string, size int) error {
	if len(v) >= size {
		return fmt.Errorf("%w: %s is %d bytes, max %d", common.ErrInputTooLong, name, len(v), size-1)
	}
	if bytes.IndexByte([]byte(v), 0) >= 0 {
		return fmt.Errorf("%w: %s contains NUL", common.ErrInvalidInput, name)
	}
	return nil
}

func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
