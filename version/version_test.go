package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestInfoString(t *testing.T) {
	dev := Info{Version: Dev, CommitHash: "abc", BuildTime: "now"}
	assert.Equal(t, "derive dev (commit abc, built now)", dev.String())

	tagged := Info{Version: "v1.2.0", CommitHash: "abc", BuildTime: "now"}
	assert.True(t, strings.HasPrefix(tagged.String(), "derive v1.2.0"))
}

func TestShort(t *testing.T) {
	assert.Equal(t, "0123456", Info{CommitHash: "0123456789"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		current, generated string
		want               bool
	}{
		{"dev", "v1.0.0", true},
		{"v1.0.0", "dev", true},
		{"v1.4.0", "v1.0.2", true},
		{"v1.4.0", "v2.0.0", false},
		{"v0.3.1", "v0.3.0", true},
		{"v0.3.1", "v0.2.9", false},
	}
	for _, tt := range tests {
		t.Run(tt.current+"/"+tt.generated, func(t *testing.T) {
			ok, err := Compatible(tt.current, tt.generated)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestCompatibleInvalid(t *testing.T) {
	_, err := Compatible("v1.0.0", "not-a-version")
	assert.Error(t, err)
}
