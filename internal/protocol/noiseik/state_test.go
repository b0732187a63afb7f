package noiseik

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func TestNewSymmetricStateShortName(t *testing.T) {
	st := NewSymmetricState(ProtocolName)
	want := make([]byte, hashSize)
	copy(want, ProtocolName)
	require.Equal(t, want, st.h[:])
	require.Equal(t, st.h, st.ck)
}

func TestNewSymmetricStateLongName(t *testing.T) {
	name := strings.Repeat(ProtocolName+"/", 3)
	require.Greater(t, len(name), hashSize)
	st := NewSymmetricState(name)
	want := blake2b.Sum512([]byte(name))
	require.Equal(t, want, st.h)
	require.Equal(t, st.h, st.ck)
}

func TestMixHash(t *testing.T) {
	st := NewSymmetricState(ProtocolName)
	before := st.h
	data := []byte("transcript data")

	st.MixHash(data)

	want := blake2b.Sum512(append(before[:], data...))
	require.Equal(t, want, st.h)
	require.Equal(t, before, st.ck, "MixHash must leave ck alone")
}

func TestMixHashEmptyPrologue(t *testing.T) {
	st := NewSymmetricState(ProtocolName)
	before := st.h
	st.MixHash(nil)
	want := blake2b.Sum512(before[:])
	require.Equal(t, want, st.h)
}

func TestMixKey(t *testing.T) {
	st := NewSymmetricState(ProtocolName)
	h := st.h
	ikm := []byte("dh output")
	wantCk, wantTemp := HKDF2(st.ck[:], ikm)

	temp := st.MixKey(ikm)

	require.Equal(t, wantTemp, temp)
	require.Equal(t, wantCk, st.ck, "ck must advance to the first HKDF output")
	require.Equal(t, h, st.h, "MixKey must leave h alone")
}

func TestWipe(t *testing.T) {
	st := NewSymmetricState(ProtocolName)
	st.MixKey([]byte("secret material"))
	st.Wipe()
	require.Equal(t, [hashSize]byte{}, st.h)
	require.Equal(t, [hashSize]byte{}, st.ck)
}
