// Command ringsettlement compiles the settlement circuit for a
// configured batch shape and reports its constraint count — the
// Go-native analogue of the reference's CircuitGadget::printInfo(),
// in the flag+zerolog CLI shape of the teacher's cmd/keygen/main.go.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ringsettlement/pkg/core"
	"ringsettlement/pkg/prover"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	numRings := flag.Int("rings", core.DefaultConfig().NumRings, "number of ring settlements per proof")
	treeDepthFilled := flag.Int("filled-depth", 0, "trading-history tree depth (0 = orderID+account bits)")
	treeDepthAccounts := flag.Int("accounts-depth", 0, "accounts tree depth (0 = account bits)")
	flag.Parse()

	cfg := core.DefaultConfig()
	cfg.NumRings = *numRings
	if *treeDepthFilled > 0 {
		cfg.TreeDepthFilled = *treeDepthFilled
	}
	if *treeDepthAccounts > 0 {
		cfg.TreeDepthAccounts = *treeDepthAccounts
	}

	p, err := prover.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to compile settlement circuit")
	}

	log.Info().
		Int("num_rings", cfg.NumRings).
		Int("filled_depth", cfg.TreeDepthFilled).
		Int("accounts_depth", cfg.TreeDepthAccounts).
		Int("constraints", p.NbConstraints()).
		Msg("settlement circuit ready")
}
