package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const formatVersionV1 = 1

// ErrCorruptSession is returned by [Decode] for blobs it cannot read.
var ErrCorruptSession = errors.New("corrupt session blob")

// Encode serializes s. The session id is not part of the blob; it is the Redis key.
func Encode(s *Session) ([]byte, error) {
	if s == nil {
		return nil, errors.New("nil session")
	}
	if len(s.UserID) == 0 {
		return nil, errors.New("userID required")
	}
	if len(s.UserID) > 255 {
		return nil, errors.New("userID too long")
	}
	if len(s.Role) > 255 {
		return nil, errors.New("role too long")
	}

	var buf bytes.Buffer
	buf.Grow(1 + 1 + len(s.UserID) + 1 + len(s.Role) + 16)

	buf.WriteByte(formatVersionV1)
	buf.WriteByte(byte(len(s.UserID)))
	buf.WriteString(s.UserID)
	buf.WriteByte(byte(len(s.Role)))
	buf.WriteString(s.Role)

	var ts [16]byte
	binary.BigEndian.PutUint64(ts[0:8], uint64(s.CreatedAt))
	binary.BigEndian.PutUint64(ts[8:16], uint64(s.ExpiresAt))
	buf.Write(ts[:])

	return buf.Bytes(), nil
}

// Decode parses a blob produced by [Encode].
func Decode(data []byte) (*Session, error) {
	r := bytes.NewReader(data)

	version, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if version != formatVersionV1 {
		return nil, fmt.Errorf("%w: unknown version %d", ErrCorruptSession, version)
	}

	userID, err := readShortString(r)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", ErrCorruptSession)
	}
	role, err := readShortString(r)
	if err != nil {
		return nil, err
	}

	var ts [16]byte
	if _, err := io.ReadFull(r, ts[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptSession, r.Len())
	}

	return &Session{
		UserID:    userID,
		Role:      role,
		CreatedAt: int64(binary.BigEndian.Uint64(ts[0:8])),
		ExpiresAt: int64(binary.BigEndian.Uint64(ts[8:16])),
	}, nil
}

func readShortString(r *bytes.Reader) (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	return string(b), nil
}
