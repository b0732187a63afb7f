// Package rsacrypt implements the appliance's legacy login encryption:
// RSA PKCS#1 v1.5 under a public key published as raw hex modulus and
// exponent strings.
//
// Older firmware exposes no key container format, only the two hex
// strings from the unauthenticated info endpoint. This package carries
// them into a form the platform RSA implementation accepts: a
// from-scratch DER encoder assembles a standard X.509
// SubjectPublicKeyInfo (RSAPublicKey SEQUENCE in a BIT STRING beside
// the rsaEncryption AlgorithmIdentifier), frames it as PEM, and the
// encryptor parses that PEM back before encrypting. DER tags, length
// forms and the rsaEncryption OID live as named constants so the
// encoder can be read against the ASN.1 definitions directly.
//
// The encoder covers exactly what SubjectPublicKeyInfo for RSA needs:
// INTEGER, SEQUENCE and BIT STRING, with lengths up to two bytes.
package rsacrypt
