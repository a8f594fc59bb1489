package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB   uint32 = 8 * 1024
	minSaltLength uint32 = 16
	minKeyLength  uint32 = 16
	minPassBytes         = 8
	maxPassBytes         = 1024
	algorithmID          = "argon2id"
)

var (
	// ErrInvalidHash is returned for stored hashes that are not well-formed Argon2id PHC strings.
	ErrInvalidHash = errors.New("invalid password hash")
	// ErrPasswordLength is returned by [Hasher.Hash] for passwords outside the accepted length.
	ErrPasswordLength = errors.New("password length out of range")
)

var b64 = base64.RawStdEncoding

// Config holds the Argon2id cost parameters.
type Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultConfig returns interactive-login costs.
func DefaultConfig() Config {
	return Config{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Validate checks the parameters against the accepted minimums.
func (c Config) Validate() error {
	switch {
	case c.Memory < minMemoryKB:
		return fmt.Errorf("argon2 memory must be at least %d KiB", minMemoryKB)
	case c.Time < 1:
		return errors.New("argon2 time must be at least 1")
	case c.Parallelism < 1:
		return errors.New("argon2 parallelism must be at least 1")
	case c.SaltLength < minSaltLength:
		return fmt.Errorf("argon2 salt length must be at least %d", minSaltLength)
	case c.KeyLength < minKeyLength:
		return fmt.Errorf("argon2 key length must be at least %d", minKeyLength)
	}
	return nil
}

// Hasher hashes and verifies passwords. It is safe for concurrent use.
type Hasher struct {
	config Config
}

// NewHasher validates cfg and returns a [Hasher].
func NewHasher(cfg Config) (*Hasher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Hasher{config: cfg}, nil
}

// Hash derives a PHC-encoded hash with a fresh random salt.
func (h *Hasher) Hash(plain string) (string, error) {
	if len(plain) < minPassBytes || len(plain) > maxPassBytes {
		return "", ErrPasswordLength
	}

	salt := make([]byte, h.config.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(plain), salt, h.config.Time, h.config.Memory, h.config.Parallelism, h.config.KeyLength)
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID, argon2.Version,
		h.config.Memory, h.config.Time, h.config.Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key),
	), nil
}

// Verify reports whether plain matches encoded. A malformed hash is an error,
// a mismatch is not.
func (h *Hasher) Verify(plain, encoded string) (bool, error) {
	p, err := parse(encoded)
	if err != nil {
		return false, err
	}
	if len(plain) > maxPassBytes {
		return false, nil
	}

	key := argon2.IDKey([]byte(plain), p.salt, p.cfg.Time, p.cfg.Memory, p.cfg.Parallelism, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(key, p.key) == 1, nil
}

// NeedsRehash reports whether encoded was produced with weaker costs than the
// hasher's configuration.
func (h *Hasher) NeedsRehash(encoded string) (bool, error) {
	p, err := parse(encoded)
	if err != nil {
		return false, err
	}
	return p.cfg.Memory < h.config.Memory ||
		p.cfg.Time < h.config.Time ||
		p.cfg.Parallelism < h.config.Parallelism ||
		uint32(len(p.key)) != h.config.KeyLength, nil
}

type phc struct {
	cfg  Config
	salt []byte
	key  []byte
}

func parse(encoded string) (*phc, error) {
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != algorithmID {
		return nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, ErrInvalidHash
	}

	var (
		p   phc
		par uint32
	)
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.cfg.Memory, &p.cfg.Time, &par); err != nil {
		return nil, ErrInvalidHash
	}
	if p.cfg.Memory < minMemoryKB || p.cfg.Time < 1 || par < 1 || par > 255 {
		return nil, ErrInvalidHash
	}
	p.cfg.Parallelism = uint8(par)

	var err error
	if p.salt, err = b64.DecodeString(fields[4]); err != nil || uint32(len(p.salt)) < minSaltLength {
		return nil, ErrInvalidHash
	}
	if p.key, err = b64.DecodeString(fields[5]); err != nil || uint32(len(p.key)) < minKeyLength {
		return nil, ErrInvalidHash
	}
	return &p, nil
}
