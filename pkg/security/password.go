package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/orcalabs/orcamentos-backend/pkg/config"
)

const (
	minMemoryKB   = 8 * 1024
	maxMemoryKB   = 512 * 1024
	minIterations = 1
	maxIterations = 16
	minThreads    = 1
	maxThreads    = 8
	minSaltLength = 8
	maxSaltLength = 64
	minKeyLength  = 16
	maxKeyLength  = 128

	tempPasswordCharset = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	tempPasswordLength  = 12
)

var errInvalidHashFormat = errors.New("invalid password hash format")

// HashPassword derives an argon2id hash of password using the configured
// parameters and returns the encoded representation.
func HashPassword(cfg config.PasswordConfig, password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}

	memory := uint32(clampInt(cfg.ArgonMemoryKB, minMemoryKB, maxMemoryKB))
	iterations := uint32(clampInt(cfg.ArgonTime, minIterations, maxIterations))
	threads := uint8(clampInt(cfg.ArgonParallelism, minThreads, maxThreads))
	keyLength := uint32(clampInt(cfg.ArgonKeyLen, minKeyLength, maxKeyLength))

	salt := make([]byte, clampInt(cfg.ArgonSaltLen, minSaltLength, maxSaltLength))
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, iterations, memory, threads, keyLength)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		memory,
		iterations,
		threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// VerifyPassword reports whether password matches the encoded argon2id hash.
func VerifyPassword(encodedHash, password string) (bool, error) {
	memory, iterations, threads, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(key)))
	if subtle.ConstantTimeCompare(key, candidate) == 1 {
		return true, nil
	}
	return false, nil
}

func decodeHash(encodedHash string) (memory, iterations uint32, threads uint8, salt, key []byte, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, errInvalidHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, errInvalidHashFormat
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, errors.New("incompatible argon2 version")
	}

	var parallelism uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return 0, 0, 0, nil, nil, errInvalidHashFormat
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, errInvalidHashFormat
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, errInvalidHashFormat
	}

	return memory, iterations, uint8(parallelism), salt, key, nil
}

// GenerateTempPassword returns a random temporary password for newly
// registered sellers, drawn from an unambiguous character set.
func GenerateTempPassword() (string, error) {
	var sb strings.Builder
	sb.Grow(tempPasswordLength)
	for i := 0; i < tempPasswordLength; i++ {
		idx, err := randInt(len(tempPasswordCharset))
		if err != nil {
			return "", err
		}
		sb.WriteByte(tempPasswordCharset[idx])
	}
	return sb.String(), nil
}

func randInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, fmt.Errorf("generating random index: %w", err)
	}
	return int(n.Int64()), nil
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
