// Package config loads environment settings fail-open: a value that does not
// parse or validate falls back to its default and yields a warning instead of
// an error, so a typo in an optional knob never keeps the server down.
//
// Hard requirements (API keys, URLs the service cannot work without) belong in
// the strict pkg/config helpers and a Validate method instead.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result is one loaded value.
type Result[T any] struct {
	Value T

	// Warning explains why the default was used. Empty unless FallbackApplied.
	Warning string

	// FallbackApplied is true when the environment held an unusable value.
	FallbackApplied bool
}

// Load reads envKey, parses it and validates it. An unset or blank variable
// yields defaultValue without a warning.
//
//	r := Load("HTTP_ADDR", ":8080", func(s string) (string, error) { return s, nil }, ValidateListenAddr)
func Load[T any](envKey string, defaultValue T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return Result[T]{Value: defaultValue}
	}

	v, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		return Result[T]{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", envKey, raw, err, defaultValue),
			FallbackApplied: true,
		}
	}
	return Result[T]{Value: v}
}

// LoadString loads a string, optionally validated.
func LoadString(envKey, defaultValue string, validate func(string) error) Result[string] {
	return Load(envKey, defaultValue, func(s string) (string, error) { return s, nil }, validate)
}

// LoadDuration loads a time.ParseDuration value.
func LoadDuration(envKey string, defaultValue time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return Load(envKey, defaultValue, time.ParseDuration, validate)
}

// LoadInt loads a base-10 int.
func LoadInt(envKey string, defaultValue int, validate func(int) error) Result[int] {
	return Load(envKey, defaultValue, strconv.Atoi, validate)
}

// LoadInt64 loads a base-10 int64.
func LoadInt64(envKey string, defaultValue int64, validate func(int64) error) Result[int64] {
	return Load(envKey, defaultValue, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	}, validate)
}

// LoadBool loads a strconv.ParseBool value.
func LoadBool(envKey string, defaultValue bool) Result[bool] {
	return Load(envKey, defaultValue, strconv.ParseBool, nil)
}
