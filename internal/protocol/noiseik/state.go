package noiseik

import "nasauth/internal/util/memzero"

// ProtocolName identifies the handshake suite. Its bytes seed both the
// transcript hash and the chaining key.
const ProtocolName = "Noise_IK_25519_ChaChaPoly_BLAKE2b"

// SymmetricState carries the running handshake transcript hash h and
// the HKDF chaining key ck. A state is created fresh per handshake
// attempt and wiped once the message is produced; it is not safe for
// concurrent use.
type SymmetricState struct {
	h  [hashSize]byte
	ck [hashSize]byte
}

// NewSymmetricState seeds a state from a protocol name. Names no longer
// than the hash length occupy h zero-padded; longer names are hashed
// down first. ck starts as a copy of h.
func NewSymmetricState(protocolName string) *SymmetricState {
	s := &SymmetricState{}
	if len(protocolName) <= hashSize {
		copy(s.h[:], protocolName)
	} else {
		s.h = Hash([]byte(protocolName))
	}
	s.ck = s.h
	return s
}

// MixHash absorbs data into the transcript hash: h = Hash(h || data).
func (s *SymmetricState) MixHash(data []byte) {
	s.h = Hash(s.h[:], data)
}

// MixKey ratchets the chaining key with fresh input key material and
// returns key material for the record cipher. The cipher uses the first
// 32 bytes of the result, with its message counter starting over at
// zero.
func (s *SymmetricState) MixKey(ikm []byte) [hashSize]byte {
	ck, tempKey := HKDF2(s.ck[:], ikm)
	s.ck = ck
	return tempKey
}

// Wipe clears the transcript hash and chaining key.
func (s *SymmetricState) Wipe() {
	memzero.Zero(s.h[:])
	memzero.Zero(s.ck[:])
}
