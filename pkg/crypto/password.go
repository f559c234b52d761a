package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sectoolkit/pkg/serrors"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const argon2ID = "argon2id"

// Upper bounds for parameters read from stored argon2id hashes.
const (
	maxArgon2Memory = 1 << 22 // KiB
	maxArgon2Time   = 16
)

// Argon2Params configures argon2id password hashing.
type Argon2Params struct {
	// Memory is the memory cost in KiB.
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params follows the OWASP baseline for argon2id.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// HashPassword returns a PHC encoded argon2id hash of password:
// $argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>.
func (u *HashUtils) HashPassword(password string) (string, error) {
	if password == "" {
		return "", serrors.With(serrors.ErrBadRequest, "password is empty")
	}

	salt := make([]byte, u.argon.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("could not generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, u.argon.Time, u.argon.Memory, u.argon.Parallelism, u.argon.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2ID,
		argon2.Version,
		u.argon.Memory,
		u.argon.Time,
		u.argon.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword checks password against an argon2id or bcrypt hash. A
// mismatch returns false without error; malformed or unsupported hashes
// return ErrBadRequest.
func (u *HashUtils) VerifyPassword(password, encoded string) (bool, error) {
	encoded = strings.TrimSpace(encoded)

	switch {
	case strings.HasPrefix(encoded, "$"+argon2ID+"$"):
		phc, err := parsePHC(encoded)
		if err != nil {
			return false, serrors.Wrap(serrors.ErrBadRequest, err, "invalid argon2id hash")
		}

		key := argon2.IDKey([]byte(password), phc.salt, phc.params.Time, phc.params.Memory,
			phc.params.Parallelism, phc.params.KeyLength)

		return subtle.ConstantTimeCompare(key, phc.key) == 1, nil
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}

		if err != nil {
			return false, serrors.Wrap(serrors.ErrBadRequest, err, "invalid bcrypt hash")
		}

		return true, nil
	default:
		return false, serrors.With(serrors.ErrBadRequest, "unsupported password hash format")
	}
}

// BcryptHash hashes password with bcrypt. A zero cost uses bcrypt.DefaultCost.
func (u *HashUtils) BcryptHash(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", serrors.With(serrors.ErrBadRequest, "bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", serrors.Wrap(serrors.ErrBadRequest, err, "password exceeds 72 bytes")
	}

	if err != nil {
		return "", fmt.Errorf("could not hash password: %w", err)
	}

	return string(h), nil
}

type phcHash struct {
	params Argon2Params
	salt   []byte
	key    []byte
}

func parsePHC(encoded string) (*phcHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != argon2ID {
		return nil, errors.New("invalid PHC format")
	}

	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	var out phcHash
	for _, kv := range strings.Split(parts[3], ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid parameter %q", kv)
		}

		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid parameter %q", kv)
		}

		switch k {
		case "m":
			if n > maxArgon2Memory {
				return nil, fmt.Errorf("memory cost %d exceeds %d KiB", n, maxArgon2Memory)
			}
			out.params.Memory = uint32(n)
		case "t":
			if n > maxArgon2Time {
				return nil, fmt.Errorf("time cost %d exceeds %d", n, maxArgon2Time)
			}
			out.params.Time = uint32(n)
		case "p":
			if n > 255 {
				return nil, fmt.Errorf("invalid parallelism %d", n)
			}
			out.params.Parallelism = uint8(n)
		default:
			return nil, fmt.Errorf("unknown parameter %q", k)
		}
	}

	if out.params.Memory == 0 || out.params.Time == 0 || out.params.Parallelism == 0 {
		return nil, errors.New("missing argon2 parameters")
	}

	if out.salt, err = decodeB64(parts[4]); err != nil {
		return nil, fmt.Errorf("invalid salt: %w", err)
	}

	if out.key, err = decodeB64(parts[5]); err != nil || len(out.key) == 0 {
		return nil, errors.New("invalid hash encoding")
	}

	out.params.SaltLength = uint32(len(out.salt))
	out.params.KeyLength = uint32(len(out.key))

	return &out, nil
}

// decodeB64 accepts both padded and unpadded standard base64.
func decodeB64(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
