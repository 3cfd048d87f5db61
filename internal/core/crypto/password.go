// Package crypto provides argon2id password hashing. Hashes are encoded in
// the PHC string format, so verification needs no parameter storage beyond
// the hash itself.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id work parameters (OWASP-recommended defaults).
const (
	argonTime    = 1         // iterations
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	saltLength   = 16
	keyLength    = 32
)

// ErrMalformedHash reports an encoded hash that cannot be parsed back into
// its parameters. It is distinct from a clean password mismatch so operators
// can tell corrupted records apart from bad logins.
var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword derives an argon2id hash of the password with a fresh random
// salt and returns it as a self-describing PHC string:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<digest>
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, keyLength)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
	return encoded, nil
}

// VerifyPassword re-derives the digest from the supplied password using the
// parameters embedded in encodedHash and compares in constant time.
// Returns (false, nil) on a clean mismatch and a non-nil error only when the
// encoded hash itself is unusable.
func VerifyPassword(encodedHash, password string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, ErrMalformedHash
	}
	if parts[1] != "argon2id" {
		return false, fmt.Errorf("%w: unsupported algorithm %q", ErrMalformedHash, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if threads == 0 || threads > 255 {
		return false, fmt.Errorf("%w: parallelism %d out of range", ErrMalformedHash, threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if len(want) == 0 {
		return false, fmt.Errorf("%w: empty digest", ErrMalformedHash)
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, uint8(threads), uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
