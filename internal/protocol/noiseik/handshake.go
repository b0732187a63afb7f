package noiseik

import (
	"fmt"
	"io"

	"nasauth/internal/crypto"
	"nasauth/internal/util/memzero"
)

// Message is the single IK initiator message.
//
// Wire layout, in order and without length prefixes:
//
//	ephemeral public key   32 bytes, clear
//	encrypted static key   48 bytes (32-byte key + 16-byte tag)
//	encrypted payload      len(payload) + 16 bytes
//
// Both sides know the fixed prefixes; the payload length follows from
// the enclosing request.
type Message struct {
	Ephemeral        crypto.PublicKey
	EncryptedStatic  []byte
	EncryptedPayload []byte
}

// Bytes flattens the message into its wire form.
func (m *Message) Bytes() []byte {
	out := make([]byte, 0, len(m.Ephemeral)+len(m.EncryptedStatic)+len(m.EncryptedPayload))
	out = append(out, m.Ephemeral[:]...)
	out = append(out, m.EncryptedStatic...)
	out = append(out, m.EncryptedPayload...)
	return out
}

// Initiate runs the initiator side of the IK handshake against the
// responder's static public key and returns the one message this login
// flow sends. The payload is typically a small JSON credential blob.
//
// Steps, in transcript order:
//  1. Seed the symmetric state; mix the empty prologue.
//  2. Mix the responder's static key (the IK pre-message).
//  3. Generate e, the ephemeral keypair; mix its public key.
//  4. Mix the ephemeral/responder shared secret into k1.
//  5. Encrypt the public key of s, a keypair drawn fresh for this
//     call, under k1; mix the ciphertext.
//  6. Mix the static/responder shared secret into k2.
//  7. Encrypt the payload under k2.
//
// Both keypairs come from rand on every call; the appliance treats the
// encrypted static key as a per-login proof, not a stable identity.
// Given a fixed rand the message is fully deterministic. A failed
// attempt cannot be resumed; retry from a fresh call so no key or
// counter is ever reused.
func Initiate(rand io.Reader, responderStatic, payload []byte) (*Message, error) {
	if len(responderStatic) != crypto.KeySize {
		return nil, fmt.Errorf("responder static key: %w", crypto.ErrInvalidKey)
	}

	st := NewSymmetricState(ProtocolName)
	defer st.Wipe()
	st.MixHash(nil)
	st.MixHash(responderStatic)

	e, err := crypto.GenerateKeypair(rand)
	if err != nil {
		return nil, fmt.Errorf("generate ephemeral key: %w", err)
	}
	defer memzero.Zero(e.Private[:])
	st.MixHash(e.Public.Slice())

	es, err := crypto.SharedSecret(e.Private.Slice(), responderStatic)
	if err != nil {
		return nil, fmt.Errorf("ephemeral dh: %w", err)
	}
	defer memzero.Zero(es)
	k1 := st.MixKey(es)
	defer memzero.Zero(k1[:])

	s, err := crypto.GenerateKeypair(rand)
	if err != nil {
		return nil, fmt.Errorf("generate static key: %w", err)
	}
	defer memzero.Zero(s.Private[:])

	encryptedStatic, err := EncryptWithAD(k1[:], 0, st.h[:], s.Public.Slice())
	if err != nil {
		return nil, fmt.Errorf("encrypt static key: %w", err)
	}
	st.MixHash(encryptedStatic)

	ss, err := crypto.SharedSecret(s.Private.Slice(), responderStatic)
	if err != nil {
		return nil, fmt.Errorf("static dh: %w", err)
	}
	defer memzero.Zero(ss)
	k2 := st.MixKey(ss)
	defer memzero.Zero(k2[:])

	encryptedPayload, err := EncryptWithAD(k2[:], 0, st.h[:], payload)
	if err != nil {
		return nil, fmt.Errorf("encrypt payload: %w", err)
	}

	return &Message{
		Ephemeral:        e.Public,
		EncryptedStatic:  encryptedStatic,
		EncryptedPayload: encryptedPayload,
	}, nil
}
