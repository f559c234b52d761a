package crypto

import (
	"crypto/hmac"
	"crypto/md5"  //nolint: gosec
	"crypto/sha1" //nolint: gosec
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/serrors"
	"slices"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Algorithm names a supported digest algorithm.
type Algorithm string

const (
	MD5        Algorithm = "md5"
	SHA1       Algorithm = "sha1"
	SHA224     Algorithm = "sha224"
	SHA256     Algorithm = "sha256"
	SHA384     Algorithm = "sha384"
	SHA512     Algorithm = "sha512"
	SHA3_256   Algorithm = "sha3-256"
	SHA3_512   Algorithm = "sha3-512"
	BLAKE2b256 Algorithm = "blake2b-256"
	BLAKE2b512 Algorithm = "blake2b-512"
)

var hashers = map[Algorithm]func() hash.Hash{ //nolint: gochecknoglobals
	MD5:      md5.New,
	SHA1:     sha1.New,
	SHA224:   sha256.New224,
	SHA256:   sha256.New,
	SHA384:   sha512.New384,
	SHA512:   sha512.New,
	SHA3_256: sha3.New256,
	SHA3_512: sha3.New512,
	BLAKE2b256: func() hash.Hash {
		h, _ := blake2b.New256(nil)

		return h
	},
	BLAKE2b512: func() hash.Hash {
		h, _ := blake2b.New512(nil)

		return h
	},
}

// Algorithms lists the supported algorithms in lexical order.
func Algorithms() []Algorithm {
	algs := make([]Algorithm, 0, len(hashers))
	for a := range hashers {
		algs = append(algs, a)
	}

	slices.Sort(algs)

	return algs
}

// ParseAlgorithm resolves a user supplied algorithm name. Case, dashes and
// underscores are tolerated, so "SHA-256" and "sha3_256" are accepted.
func ParseAlgorithm(name string) (Algorithm, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if _, ok := hashers[Algorithm(n)]; ok {
		return Algorithm(n), nil
	}

	compact := strings.NewReplacer("-", "", "_", "").Replace(n)
	for a := range hashers {
		if strings.ReplaceAll(string(a), "-", "") == compact {
			return a, nil
		}
	}

	return "", serrors.With(serrors.ErrBadRequest, "unsupported hash algorithm %q", name)
}

func newHash(alg Algorithm) (hash.Hash, error) {
	fn, ok := hashers[alg]
	if !ok {
		return nil, serrors.With(serrors.ErrBadRequest, "unsupported hash algorithm %q", alg)
	}

	return fn(), nil
}

// HashUtils computes and verifies digests and password hashes.
type HashUtils struct {
	argon Argon2Params
}

// NewHashUtils creates HashUtils. Zero argon2 parameters use DefaultArgon2Params.
func NewHashUtils(argon Argon2Params) *HashUtils {
	if argon == (Argon2Params{}) {
		argon = DefaultArgon2Params()
	}

	return &HashUtils{argon: argon}
}

// HashBytes returns the digest of data.
func (u *HashUtils) HashBytes(alg Algorithm, data []byte) (domain.Digest, error) {
	h, err := newHash(alg)
	if err != nil {
		return domain.Digest{}, err
	}

	h.Write(data)

	return domain.Digest{Algorithm: string(alg), Hex: hex.EncodeToString(h.Sum(nil))}, nil
}

// HashString returns the digest of the UTF-8 bytes of s.
func (u *HashUtils) HashString(alg Algorithm, s string) (domain.Digest, error) {
	d, err := u.HashBytes(alg, []byte(s))
	d.Source = "string"

	return d, err
}

// HashReader returns the digest of everything read from r.
func (u *HashUtils) HashReader(alg Algorithm, r io.Reader) (domain.Digest, error) {
	h, err := newHash(alg)
	if err != nil {
		return domain.Digest{}, err
	}

	if _, err := io.Copy(h, r); err != nil {
		return domain.Digest{}, fmt.Errorf("could not read input: %w", err)
	}

	return domain.Digest{Algorithm: string(alg), Hex: hex.EncodeToString(h.Sum(nil))}, nil
}

// HashFile returns the digest of the file at path.
func (u *HashUtils) HashFile(path string, alg Algorithm) (domain.Digest, error) {
	digests, err := u.HashFileMulti(path, alg)
	if err != nil {
		return domain.Digest{}, err
	}

	return digests[0], nil
}

// HashFileMulti computes several digests of the file at path in a single pass.
func (u *HashUtils) HashFileMulti(path string, algs ...Algorithm) ([]domain.Digest, error) {
	if len(algs) == 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "no hash algorithm given")
	}

	hashes := make([]hash.Hash, len(algs))
	writers := make([]io.Writer, len(algs))
	for i, alg := range algs {
		h, err := newHash(alg)
		if err != nil {
			return nil, err
		}

		hashes[i], writers[i] = h, h
	}

	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := io.Copy(io.MultiWriter(writers...), f); err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}

	digests := make([]domain.Digest, len(algs))
	for i, alg := range algs {
		digests[i] = domain.Digest{Algorithm: string(alg), Hex: hex.EncodeToString(hashes[i].Sum(nil)), Source: path}
	}

	return digests, nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, serrors.Wrap(serrors.ErrNotFound, err, "file %s not found", path)
	case errors.Is(err, fs.ErrPermission):
		return nil, serrors.Wrap(serrors.ErrForbidden, err, "file %s is not readable", path)
	case err != nil:
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}

	return f, nil
}

// HMAC returns the hex encoded HMAC of data under key.
func (u *HashUtils) HMAC(alg Algorithm, key, data []byte) (string, error) {
	if _, ok := hashers[alg]; !ok {
		return "", serrors.With(serrors.ErrBadRequest, "unsupported hash algorithm %q", alg)
	}

	mac := hmac.New(hashers[alg], key)
	mac.Write(data)

	return hex.EncodeToString(mac.Sum(nil)), nil
}

// VerifyHMAC checks expected against the HMAC of data in constant time.
func (u *HashUtils) VerifyHMAC(alg Algorithm, key, data []byte, expected string) (bool, error) {
	sum, err := u.HMAC(alg, key, data)
	if err != nil {
		return false, err
	}

	want, err := hex.DecodeString(strings.TrimSpace(expected))
	if err != nil {
		return false, serrors.Wrap(serrors.ErrBadRequest, err, "expected mac is not hex")
	}

	got, _ := hex.DecodeString(sum)

	return hmac.Equal(got, want), nil
}

// VerifyFile reports whether the file digest equals expected.
func (u *HashUtils) VerifyFile(path string, alg Algorithm, expected string) (bool, error) {
	d, err := u.HashFile(path, alg)
	if err != nil {
		return false, err
	}

	return Compare(d.Hex, expected), nil
}

// Compare reports whether two hex digests are equal, ignoring case and
// surrounding space. The comparison runs in constant time for equal lengths.
func Compare(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

var hexCandidates = map[int][]string{ //nolint: gochecknoglobals
	32:  {string(MD5)},
	40:  {string(SHA1)},
	56:  {string(SHA224)},
	64:  {string(SHA256), string(SHA3_256), string(BLAKE2b256)},
	96:  {string(SHA384)},
	128: {string(SHA512), string(SHA3_512), string(BLAKE2b512)},
}

var cryptPrefixes = []struct { //nolint: gochecknoglobals
	prefix string
	name   string
}{
	{"$argon2id$", "argon2id"},
	{"$argon2i$", "argon2i"},
	{"$2a$", "bcrypt"},
	{"$2b$", "bcrypt"},
	{"$2y$", "bcrypt"},
	{"$6$", "sha512-crypt"},
	{"$5$", "sha256-crypt"},
	{"$1$", "md5-crypt"},
}

// Identify guesses which algorithms could have produced digest, based on
// encoded prefixes and hex length. It returns nil when nothing matches.
func Identify(digest string) []string {
	digest = strings.TrimSpace(digest)
	for _, p := range cryptPrefixes {
		if strings.HasPrefix(digest, p.prefix) {
			return []string{p.name}
		}
	}

	if _, err := hex.DecodeString(digest); err != nil {
		return nil
	}

	return slices.Clone(hexCandidates[len(digest)])
}
