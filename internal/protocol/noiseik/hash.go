package noiseik

import "golang.org/x/crypto/blake2b"

const (
	// hashSize is the digest length of the handshake hash, BLAKE2b-512.
	hashSize = blake2b.Size
	// blockSize is the BLAKE2b block length the HMAC key schedule pads to.
	blockSize = blake2b.BlockSize
)

// Hash returns the unkeyed BLAKE2b-512 digest of the concatenation of
// its inputs.
func Hash(data ...[]byte) [hashSize]byte {
	d, _ := blake2b.New512(nil)
	for _, p := range data {
		d.Write(p)
	}
	var out [hashSize]byte
	d.Sum(out[:0])
	return out
}

// HMAC computes HMAC over BLAKE2b-512 with a 128-byte block. The key
// schedule is written out in full rather than delegated to a library
// MAC: keys longer than one block are hashed down, then zero-padded,
// and 0x36/0x5c are the inner and outer pads. The appliance re-derives
// every value this feeds, so the construction must hold byte for byte.
func HMAC(key, data []byte) [hashSize]byte {
	var block [blockSize]byte
	if len(key) > blockSize {
		sum := Hash(key)
		copy(block[:], sum[:])
	} else {
		copy(block[:], key)
	}

	var ipad, opad [blockSize]byte
	for i := range block {
		ipad[i] = block[i] ^ 0x36
		opad[i] = block[i] ^ 0x5c
	}

	inner := Hash(ipad[:], data)
	return Hash(opad[:], inner[:])
}

// HKDF2 derives two 64-byte outputs from a chaining key and input key
// material with the chain
//
//	tempKey = HMAC(chainingKey, ikm)
//	out1    = HMAC(tempKey, 0x01)
//	out2    = HMAC(tempKey, out1 || 0x02)
func HKDF2(chainingKey, ikm []byte) (out1, out2 [hashSize]byte) {
	tempKey := HMAC(chainingKey, ikm)
	out1 = HMAC(tempKey[:], []byte{0x01})
	out2 = HMAC(tempKey[:], tagged(out1, 0x02))
	return out1, out2
}

// HKDF3 extends HKDF2 with a third output,
// out3 = HMAC(tempKey, out2 || 0x03).
func HKDF3(chainingKey, ikm []byte) (out1, out2, out3 [hashSize]byte) {
	tempKey := HMAC(chainingKey, ikm)
	out1 = HMAC(tempKey[:], []byte{0x01})
	out2 = HMAC(tempKey[:], tagged(out1, 0x02))
	out3 = HMAC(tempKey[:], tagged(out2, 0x03))
	return out1, out2, out3
}

func tagged(sum [hashSize]byte, tag byte) []byte {
	out := make([]byte, hashSize+1)
	copy(out, sum[:])
	out[hashSize] = tag
	return out
}
