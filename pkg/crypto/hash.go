package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Хеширование секретов API через bcrypt.
// В конфигурации хранится только хеш админского токена,
// сам токен сравнивается middleware'ом при каждом запросе.

var (
	ErrEmptySecret    = errors.New("secret cannot be empty")
	ErrSecretMismatch = errors.New("secret does not match hash")
	ErrInvalidHash    = errors.New("invalid secret hash format")
	ErrSecretTooLong  = errors.New("secret exceeds maximum length of 72 bytes")
)

// DefaultCost - стоимость хеширования по умолчанию
const DefaultCost = 12

// MaxSecretLength - предел bcrypt (72 байта)
const MaxSecretLength = 72

// HashSecret хеширует секрет с автоматической генерацией salt
func HashSecret(secret string) (string, error) {
	return HashSecretWithCost(secret, DefaultCost)
}

// HashSecretWithCost хеширует секрет с указанной стоимостью.
// Значения вне [bcrypt.MinCost, bcrypt.MaxCost] приводятся к границам.
func HashSecretWithCost(secret string, cost int) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	if len(secret) > MaxSecretLength {
		return "", ErrSecretTooLong
	}

	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifySecret проверяет соответствие секрета хешу.
// Сравнение выполняется за константное время.
func VerifySecret(secret, hash string) error {
	if secret == "" {
		return ErrEmptySecret
	}
	if hash == "" {
		return ErrInvalidHash
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrSecretMismatch
		}
		return ErrInvalidHash
	}

	return nil
}

// SecretMatches - обёртка VerifySecret для использования в условиях
func SecretMatches(secret, hash string) bool {
	return VerifySecret(secret, hash) == nil
}
