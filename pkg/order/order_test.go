package order_test

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/consensys/gnark/test"

	"ringsettlement/pkg/order"
	"ringsettlement/pkg/witness"
)

type orderCircuit struct {
	Witness order.Witness
}

func (c *orderCircuit) Define(api frontend.API) error {
	curve, err := twistededwards.NewEdCurve(api, tedwards.BN254)
	if err != nil {
		return err
	}
	_, err = order.Build(api, curve, c.Witness)
	return err
}

func felt(v uint64) *fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return &e
}

func newSignedOrder(t *testing.T) order.Witness {
	t.Helper()
	signer, err := witness.NewSigner()
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}

	dexID, orderID := uint64(5), uint64(1)
	accountS, accountB, accountF := uint64(100), uint64(200), uint64(300)
	amountS, amountB, amountF := uint64(1000), uint64(2000), uint64(10)

	sig, err := witness.SignOrderFields(signer, [8]*fr.Element{
		felt(dexID), felt(orderID), felt(accountS), felt(accountB), felt(accountF),
		felt(amountS), felt(amountB), felt(amountF),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	return order.Witness{
		DexID: big.NewInt(int64(dexID)), OrderID: big.NewInt(int64(orderID)),
		AccountS: big.NewInt(int64(accountS)), AccountB: big.NewInt(int64(accountB)), AccountF: big.NewInt(int64(accountF)),
		AmountS: big.NewInt(int64(amountS)), AmountB: big.NewInt(int64(amountB)), AmountF: big.NewInt(int64(amountF)),
		WalletF: big.NewInt(42),
		TokenS:  big.NewInt(1), TokenB: big.NewInt(2), TokenF: big.NewInt(3),

		PublicKey: signer.AssignPublicKey(),
		Signature: sig,
	}
}

func TestOrderValidSignature(t *testing.T) {
	assert := test.NewAssert(t)
	w := newSignedOrder(t)
	assert.ProverSucceeded(&orderCircuit{}, &orderCircuit{Witness: w}, test.WithCurves(ecc.BN254))
}

func TestOrderBadSignature(t *testing.T) {
	assert := test.NewAssert(t)
	w := newSignedOrder(t)
	w.Signature.S = big.NewInt(1)
	assert.ProverFailed(&orderCircuit{}, &orderCircuit{Witness: w}, test.WithCurves(ecc.BN254))
}
