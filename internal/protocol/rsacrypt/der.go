package rsacrypt

import (
	"bytes"
	"math/big"
)

// DER tag bytes for the structures this encoder emits.
const (
	tagInteger   = 0x02
	tagBitString = 0x03
	tagSequence  = 0x30
)

var (
	// oidRSAEncryption is the encoded object identifier
	// 1.2.840.113549.1.1.1 (rsaEncryption).
	oidRSAEncryption = []byte{0x06, 0x09, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x01}
	// derNull is the NULL value filling the AlgorithmIdentifier
	// parameter slot.
	derNull = []byte{0x05, 0x00}
)

// encodeLength emits DER length octets: short form below 0x80, one
// length byte prefixed 0x81 below 0x100, two bytes prefixed 0x82 up to
// 0xffff. Two length bytes cover any RSA modulus an appliance
// publishes; longer forms are not emitted.
func encodeLength(n int) []byte {
	switch {
	case n < 0x80:
		return []byte{byte(n)}
	case n < 0x100:
		return []byte{0x81, byte(n)}
	default:
		return []byte{0x82, byte(n >> 8), byte(n)}
	}
}

func encodeTLV(tag byte, content []byte) []byte {
	length := encodeLength(len(content))
	out := make([]byte, 0, 1+len(length)+len(content))
	out = append(out, tag)
	out = append(out, length...)
	return append(out, content...)
}

func join(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// EncodeInteger wraps the unsigned big-endian bytes of an integer as a
// DER INTEGER. A 0x00 byte is prepended when the leading byte has its
// high bit set, keeping the encoded value non-negative. An empty input
// encodes the integer zero.
func EncodeInteger(unsigned []byte) []byte {
	if len(unsigned) == 0 {
		unsigned = []byte{0x00}
	}
	content := unsigned
	if unsigned[0]&0x80 != 0 {
		content = make([]byte, len(unsigned)+1)
		copy(content[1:], unsigned)
	}
	return encodeTLV(tagInteger, content)
}

// EncodeSequence wraps content as a DER SEQUENCE.
func EncodeSequence(content []byte) []byte {
	return encodeTLV(tagSequence, content)
}

// EncodeBitString wraps content as a DER BIT STRING with zero unused
// bits.
func EncodeBitString(content []byte) []byte {
	padded := make([]byte, len(content)+1)
	copy(padded[1:], content)
	return encodeTLV(tagBitString, padded)
}

// SubjectPublicKeyInfo assembles the X.509 SubjectPublicKeyInfo
// structure for an RSA public key: the rsaEncryption
// AlgorithmIdentifier next to the RSAPublicKey SEQUENCE carried in a
// BIT STRING.
func SubjectPublicKeyInfo(modulus, exponent *big.Int) []byte {
	rsaPublicKey := EncodeSequence(join(
		EncodeInteger(modulus.Bytes()),
		EncodeInteger(exponent.Bytes()),
	))
	algorithm := EncodeSequence(join(oidRSAEncryption, derNull))
	return EncodeSequence(join(algorithm, EncodeBitString(rsaPublicKey)))
}
