package smartswitch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpack(t *testing.T) {
	s := Pack(1, 4)
	assert.Equal(t, 1, s.Language())
	assert.Equal(t, 4, s.CodeTable())

	s = Pack(0, 0)
	assert.Equal(t, 0, s.Language())
	assert.Equal(t, 0, s.CodeTable())
}

func TestGetWithInsert(t *testing.T) {
	st := NewStore()
	def := Pack(1, 0)

	// First sight: stores the default, reports the sentinel.
	got := st.Get("com.apple.Terminal", def)
	assert.Equal(t, NotFound, got)

	// Second sight: the stored default comes back (through the cache).
	got = st.Get("com.apple.Terminal", Pack(0, 2))
	assert.Equal(t, int(def), got)

	st.Set("com.apple.Terminal", Pack(0, 3))
	assert.Equal(t, int(Pack(0, 3)), st.Get("com.apple.Terminal", def))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := NewStore()
	st.Set("com.example.b", Pack(1, 2))
	st.Set("com.example.a", Pack(0, 0))
	st.Set("com.example.c", State(-5))

	data := st.Save()

	loaded := NewStore()
	loaded.Load(data)
	require.Equal(t, 3, loaded.Len())
	assert.Equal(t, int(Pack(1, 2)), loaded.Get("com.example.b", 0))
	assert.Equal(t, int(State(-5)), loaded.Get("com.example.c", 0))

	// Stable output: same content serializes identically.
	assert.Equal(t, data, loaded.Save())
}

func TestLoadTruncatedKeepsParsedEntries(t *testing.T) {
	st := NewStore()
	st.Set("aa", Pack(1, 1))
	st.Set("bb", Pack(0, 2))
	data := st.Save()

	loaded := NewStore()
	loaded.Load(data[:len(data)-1])
	assert.Equal(t, 1, loaded.Len(), "the complete entry survives")
}

func TestLoadGarbage(t *testing.T) {
	loaded := NewStore()
	loaded.Load(nil)
	assert.Equal(t, 0, loaded.Len())
	loaded.Load([]byte{0xFF})
	assert.Equal(t, 0, loaded.Len())
}

func TestSaveSkipsOversizedIDs(t *testing.T) {
	st := NewStore()
	st.Set(strings.Repeat("x", 300), Pack(1, 0))
	st.Set("ok", Pack(1, 0))

	loaded := NewStore()
	loaded.Load(st.Save())
	assert.Equal(t, 1, loaded.Len())
	assert.NotEqual(t, NotFound, loaded.Get("ok", 0))
}
