package witness

import (
	"crypto/rand"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	bn254mimc "github.com/consensys/gnark-crypto/hash"
	crsignature "github.com/consensys/gnark-crypto/signature"
	creddsa "github.com/consensys/gnark-crypto/signature/eddsa"
	gnarkeddsa "github.com/consensys/gnark/std/signature/eddsa"
)

// Signer wraps a gnark-crypto EdDSA keypair and signs order messages
// the same way pkg/order.Build verifies them: MiMC-hash the packed
// fields, then EdDSA-sign the hash. Grounded on the teacher's
// GenerateKeyPair/signing pattern in pkg/crypto/circuit_test.go,
// corrected to hash canonical field-element bytes instead of the
// teacher's own broken fmt.Sprint-based byte packing.
type Signer struct {
	private crsignature.Signer
	Public  crsignature.PublicKey
}

// NewSigner generates a fresh keypair on the BN254 twisted-Edwards
// subgroup.
func NewSigner() (*Signer, error) {
	priv, err := creddsa.New(tedwards.BN254, rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Signer{private: priv, Public: priv.Public()}, nil
}

// AssignPublicKey converts the signer's public key into the
// gnark-circuit-facing assignment type.
func (s *Signer) AssignPublicKey() gnarkeddsa.PublicKey {
	var pk gnarkeddsa.PublicKey
	pk.Assign(tedwards.BN254, s.Public.Bytes()[:32])
	return pk
}

// SignOrderFields hashes the eight packed order fields with MiMC, in
// the same order pkg/order.Build feeds its own MiMC gadget, and signs
// the resulting digest.
func SignOrderFields(s *Signer, fields [8]*fr.Element) (gnarkeddsa.Signature, error) {
	h := bn254mimc.MIMC_BN254.New()
	for _, f := range fields {
		b := f.Bytes()
		h.Write(b[:])
	}
	digest := h.Sum(nil)

	sigBytes, err := s.private.Sign(digest, bn254mimc.MIMC_BN254.New())
	if err != nil {
		return gnarkeddsa.Signature{}, err
	}
	var sig gnarkeddsa.Signature
	sig.Assign(tedwards.BN254, sigBytes)
	return sig, nil
}
