// Package prover wraps Groth16 setup, proving, and verification over
// circuit.SettlementCircuit, adapted from the teacher's
// pkg/crypto/prover.go (originally built around TransactionCircuit).
package prover

import (
	"bytes"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	backendwitness "github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/rs/zerolog/log"

	"ringsettlement/pkg/circuit"
	"ringsettlement/pkg/core"
)

// Prover holds the compiled constraint system and Groth16 key pair
// for one fixed circuit shape (core.Config). A proving/verifying key
// pair is only valid for the shape it was generated against.
type Prover struct {
	cfg          *core.Config
	provingKey   groth16.ProvingKey
	verifyingKey groth16.VerifyingKey
	r1cs         constraint.ConstraintSystem
}

// New compiles circuit.NewCircuit(cfg) and runs a fresh Groth16
// trusted setup over it. Real deployments would load pk/vk from a
// ceremony instead — spec.md §1 explicitly places the trusted-setup
// ceremony itself out of scope, so this generates a local key pair
// suitable for tests and local proving only.
func New(cfg *core.Config) (*Prover, error) {
	log.Info().Int("num_rings", cfg.NumRings).Msg("compiling settlement circuit")

	placeholder := circuit.NewCircuit(cfg)
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, placeholder)
	if err != nil {
		return nil, fmt.Errorf("compile circuit: %w", err)
	}

	log.Info().Int("constraints", cs.GetNbConstraints()).Msg("circuit compiled")

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup: %w", err)
	}

	return &Prover{cfg: cfg, provingKey: pk, verifyingKey: vk, r1cs: cs}, nil
}

// NbConstraints reports the compiled circuit's constraint count, the
// Go-native analogue of the reference's CircuitGadget::printInfo().
func (p *Prover) NbConstraints() int {
	return p.r1cs.GetNbConstraints()
}

// Prove builds a full witness from assignment and returns the
// serialized proof and public witness.
func (p *Prover) Prove(assignment *circuit.SettlementCircuit) (proofBytes, publicWitnessBytes []byte, err error) {
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, nil, fmt.Errorf("build witness: %w", err)
	}

	proof, err := groth16.Prove(p.r1cs, p.provingKey, w)
	if err != nil {
		return nil, nil, fmt.Errorf("generate proof: %w", err)
	}

	var proofBuf bytes.Buffer
	if _, err := proof.WriteTo(&proofBuf); err != nil {
		return nil, nil, fmt.Errorf("serialize proof: %w", err)
	}

	publicWitness, err := w.Public()
	if err != nil {
		return nil, nil, fmt.Errorf("extract public witness: %w", err)
	}
	var publicBuf bytes.Buffer
	if _, err := publicWitness.WriteTo(&publicBuf); err != nil {
		return nil, nil, fmt.Errorf("serialize public witness: %w", err)
	}

	return proofBuf.Bytes(), publicBuf.Bytes(), nil
}

// Verify checks a serialized proof against a serialized public
// witness.
func (p *Prover) Verify(proofBytes, publicWitnessBytes []byte) (bool, error) {
	publicWitness, err := backendwitness.New(ecc.BN254.ScalarField())
	if err != nil {
		return false, fmt.Errorf("build public witness: %w", err)
	}
	if _, err := publicWitness.ReadFrom(bytes.NewReader(publicWitnessBytes)); err != nil {
		return false, fmt.Errorf("deserialize public witness: %w", err)
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return false, fmt.Errorf("deserialize proof: %w", err)
	}

	if err := groth16.Verify(proof, p.verifyingKey, publicWitness); err != nil {
		return false, fmt.Errorf("verify proof: %w", err)
	}
	return true, nil
}
