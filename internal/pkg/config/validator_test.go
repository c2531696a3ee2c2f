package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(time.Minute, time.Second, time.Hour))
	assert.NoError(t, ValidateDuration(time.Second, time.Second, time.Hour))
	assert.Error(t, ValidateDuration(time.Millisecond, time.Second, time.Hour))
	assert.Error(t, ValidateDuration(2*time.Hour, time.Second, time.Hour))
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Nanosecond))
	assert.Error(t, ValidatePositiveDuration(0))
	assert.Error(t, ValidatePositiveDuration(-time.Second))
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(1, 1, 5))
	assert.NoError(t, ValidateIntRange(5, 1, 5))
	assert.Error(t, ValidateIntRange(0, 1, 5))
	assert.Error(t, ValidateIntRange(6, 1, 5))
}

func TestValidateListenAddr(t *testing.T) {
	for _, ok := range []string{":8080", "0.0.0.0:80", "localhost:65535", "[::1]:8080"} {
		assert.NoError(t, ValidateListenAddr(ok), ok)
	}
	for _, bad := range []string{"", "8080", ":0", ":70000", ":http", "host:"} {
		assert.Error(t, ValidateListenAddr(bad), bad)
	}
}
