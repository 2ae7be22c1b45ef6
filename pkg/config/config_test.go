package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a", "b"}, CSV(" a, ,b "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("FIELDOPS_TEST_STR", "value")
	t.Setenv("FIELDOPS_TEST_INT", "42")
	t.Setenv("FIELDOPS_TEST_BAD_INT", "forty")
	t.Setenv("FIELDOPS_TEST_DUR", "30m")
	t.Setenv("FIELDOPS_TEST_BAD_DUR", "-5m")

	assert.Equal(t, "value", EnvDefault("FIELDOPS_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefault("FIELDOPS_TEST_MISSING", "def"))

	assert.Equal(t, 42, EnvIntDefault("FIELDOPS_TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("FIELDOPS_TEST_BAD_INT", 1))

	assert.Equal(t, 30*time.Minute, EnvDurationDefault("FIELDOPS_TEST_DUR", time.Hour))
	assert.Equal(t, time.Hour, EnvDurationDefault("FIELDOPS_TEST_BAD_DUR", time.Hour))
	assert.Equal(t, time.Hour, EnvDurationDefault("FIELDOPS_TEST_MISSING", time.Hour))
}
