package witness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

func TestNewSignerProducesDistinctKeys(t *testing.T) {
	a, err := NewSigner()
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	b, err := NewSigner()
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	if bytes.Equal(a.Public.Bytes(), b.Public.Bytes()) {
		t.Fatalf("two freshly generated signers produced the same public key")
	}
}

func TestSignOrderFieldsIsDeterministicPerSigner(t *testing.T) {
	signer, err := NewSigner()
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	fields := [8]*fr.Element{elem(1), elem(2), elem(3), elem(4), elem(5), elem(6), elem(7), elem(8)}

	sig1, err := SignOrderFields(signer, fields)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sig2, err := SignOrderFields(signer, fields)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if fmt.Sprint(sig1.S) != fmt.Sprint(sig2.S) {
		t.Fatalf("signing the same fields with the same signer produced different S scalars")
	}
}

func TestSignOrderFieldsDiffersAcrossMessages(t *testing.T) {
	signer, err := NewSigner()
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	fieldsA := [8]*fr.Element{elem(1), elem(2), elem(3), elem(4), elem(5), elem(6), elem(7), elem(8)}
	fieldsB := [8]*fr.Element{elem(1), elem(2), elem(3), elem(4), elem(5), elem(6), elem(7), elem(9)}

	sigA, err := SignOrderFields(signer, fieldsA)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sigB, err := SignOrderFields(signer, fieldsB)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if fmt.Sprint(sigA.S) == fmt.Sprint(sigB.S) {
		t.Fatalf("signing two different messages produced the same S scalar")
	}
}
