package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_MissingConfig(t *testing.T) {
	t.Setenv("DB_DSN", "")

	assert.Equal(t, 1, run())
}

func TestRun_InvalidDSN(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://%zz")
	t.Setenv("ENV", "production")

	assert.Equal(t, 1, run())
}
