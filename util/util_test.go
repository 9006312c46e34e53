package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKeysIsSorted(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]int{1, 2, 3}, GetKeys(map[int]string{3: "c", 1: "a", 2: "b"}))
}

func TestMod(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(11, Mod(-1, 12))
	assert.Equal(0, Mod(24, 12))
	assert.Equal(5, Mod(5, 12))
}

func TestClampAndAbs(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(127, Clamp(200, 0, 127))
	assert.Equal(0, Clamp(-3, 0, 127))
	assert.Equal(0.5, Clamp(0.5, 0.0, 1.0))
	assert.Equal(4, Abs(-4))
}

func TestBinaryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.dat")
	require.NoError(t, WriteBinary(path, map[string]int{"a": 1}))

	res, err := ReadBinary[map[string]int](path)
	require.NoError(t, err)
	assert.Equal(t, 1, res["a"])
}
