package main

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerCountPrefersEnvOverride(t *testing.T) {
	t.Setenv("RENDERER_THREADS", "3")
	assert.Equal(t, 3, workerCount(8))
}

func TestWorkerCountIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("RENDERER_THREADS", "not-a-number")
	assert.Equal(t, 8, workerCount(8))
}

func TestWorkerCountFallsBackToConfigured(t *testing.T) {
	t.Setenv("RENDERER_THREADS", "")
	assert.Equal(t, 4, workerCount(4))
}

func TestWorkerCountFallsBackToGOMAXPROCS(t *testing.T) {
	t.Setenv("RENDERER_THREADS", "")
	assert.Equal(t, runtime.GOMAXPROCS(0), workerCount(0))
}
