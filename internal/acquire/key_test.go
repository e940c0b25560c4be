package acquire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourceKey(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    SourceKey
		wantErr bool
	}{
		{name: "nxm", raw: "nxm://skyrim/mods/3863/files/1000", want: "nxm://skyrim/mods/3863/files/1000"},
		{name: "case folded", raw: "NXM://SkyRim/mods/3863/files/1000", want: "nxm://skyrim/mods/3863/files/1000"},
		{name: "path case kept", raw: "https://Example.com/Files/Mod.zip", want: "https://example.com/Files/Mod.zip"},
		{name: "fragment dropped", raw: "https://example.com/mod.zip#top", want: "https://example.com/mod.zip"},
		{name: "query kept", raw: "nxm://skyrim/mods/1/files/2?key=abc", want: "nxm://skyrim/mods/1/files/2?key=abc"},
		{name: "whitespace trimmed", raw: "  http://example.com/a.7z \n", want: "http://example.com/a.7z"},
		{name: "file", raw: "file:///home/user/mods/a.zip", want: "file:///home/user/mods/a.zip"},
		{name: "empty", raw: "", wantErr: true},
		{name: "unsupported scheme", raw: "ftp://example.com/a.zip", wantErr: true},
		{name: "no scheme", raw: "mods/a.zip", wantErr: true},
		{name: "no host", raw: "https:///a.zip", wantErr: true},
		{name: "file without path", raw: "file://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSourceKey(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSourceKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSourceKey_EquivalentURIsShareKey(t *testing.T) {
	a, err := ParseSourceKey("NXM://Skyrim/mods/1/files/2")
	require.NoError(t, err)
	b, err := ParseSourceKey("nxm://skyrim/mods/1/files/2#frag")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSourceKey_Scheme(t *testing.T) {
	assert.Equal(t, SchemeNXM, SourceKey("nxm://skyrim/mods/1/files/2").Scheme())
	assert.Equal(t, SchemeFile, SourceKey("file:///a.zip").Scheme())
	assert.Equal(t, "", SourceKey("garbage").Scheme())
}

func TestStatus(t *testing.T) {
	for _, s := range []Status{StatusComplete, StatusFailed, StatusCancelled} {
		assert.True(t, s.IsTerminal(), s)
		assert.False(t, s.Suspended(), s)
	}
	for _, s := range []Status{StatusIncomplete, StatusPaused} {
		assert.False(t, s.IsTerminal(), s)
		assert.True(t, s.Suspended(), s)
	}
	for _, s := range []Status{StatusQueued, StatusRunning} {
		assert.False(t, s.IsTerminal(), s)
		assert.False(t, s.Suspended(), s)
	}
}
