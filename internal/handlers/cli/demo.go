package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gabapcia/medchain/internal/supplychain"
	"github.com/gabapcia/medchain/internal/txsim"

	"github.com/urfave/cli/v3"
)

// Well-known accounts of a local Hardhat node.
const (
	demoManufacturer = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	demoDistributor  = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
	demoHospital     = "0x90F79bf6EB2c4f870365E785982E1f101E93b906"
	demoPatient      = "0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65"
)

type demoStep struct {
	name string
	run  func(ctx context.Context) (txsim.Transaction, error)
}

// demoCommand returns a CLI command that walks a batch from manufacturing to a
// patient and prints every transaction.
//
// Usage example:
//
//	medchain demo --account 0x70997970C51812dc3A010C7d01b50e0d17dc79C8
func demoCommand(sc supplychain.Service) *cli.Command {
	return &cli.Command{
		Name:        "demo",
		Description: "Run a scripted supply-chain flow against the simulator.",
		Usage:       "Creates a batch, moves it to a distributor, a hospital and a patient, then verifies and requests drugs.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "account",
				Usage: "Manufacturer account used to sign the flow",
				Value: demoManufacturer,
			},
			&cli.StringFlag{
				Name:  "drug",
				Usage: "Drug name of the demo batch",
				Value: "Paracetamol",
			},
			&cli.Uint64Flag{
				Name:  "quantity",
				Usage: "Units in the demo batch",
				Value: 500,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := sc.Connect(ctx, c.String("account")); err != nil {
				return err
			}
			defer sc.Disconnect(ctx)

			return runDemo(ctx, c.Root().Writer, sc, c.String("drug"), c.Uint64("quantity"))
		},
	}
}

func runDemo(ctx context.Context, w io.Writer, sc supplychain.Service, drugName string, quantity uint64) error {
	var (
		batch   supplychain.Batch
		request supplychain.DrugRequest
	)

	steps := []demoStep{
		{"grant distributor role", func(ctx context.Context) (txsim.Transaction, error) {
			return sc.GrantRole(ctx, supplychain.RoleDistributor, demoDistributor)
		}},
		{"create batch", func(ctx context.Context) (txsim.Transaction, error) {
			var (
				tx  txsim.Transaction
				err error
			)
			batch, tx, err = sc.CreateDrugBatch(ctx, drugName, quantity, time.Now().AddDate(2, 0, 0), time.Time{})
			return tx, err
		}},
		{"transfer to distributor", func(ctx context.Context) (txsim.Transaction, error) {
			return sc.TransferToDistributor(ctx, batch.ID, demoDistributor)
		}},
		{"transfer to hospital", func(ctx context.Context) (txsim.Transaction, error) {
			return sc.TransferToHospital(ctx, batch.ID, demoHospital)
		}},
		{"dispense to patient", func(ctx context.Context) (txsim.Transaction, error) {
			return sc.DispenseToPatient(ctx, batch.ID, demoPatient, min(quantity, 20))
		}},
		{"verify drug", func(ctx context.Context) (txsim.Transaction, error) {
			result, err := sc.VerifyDrug(ctx, batch.ID, batch.MerkleRoot, nil)
			return result.Transaction, err
		}},
		{"request drugs", func(ctx context.Context) (txsim.Transaction, error) {
			var (
				tx  txsim.Transaction
				err error
			)
			request, tx, err = sc.RequestDrugs(ctx, demoDistributor, batch.ID, max(quantity/5, 1), "ICU restock")
			return tx, err
		}},
		{"approve request", func(ctx context.Context) (txsim.Transaction, error) {
			return sc.ApproveRequest(ctx, request.ID)
		}},
	}

	for _, step := range steps {
		tx, err := step.run(ctx)
		if err != nil {
			return fmt.Errorf("demo step %q failed: %w", step.name, err)
		}

		fmt.Fprintf(w, "%-24s %-24s %s block=%d gasUsed=%d\n", step.name, tx.Action, tx.Hash, tx.BlockNumber, tx.GasUsed)
	}

	final, _ := sc.Batch(batch.ID)
	fmt.Fprintf(w, "batch #%d %s: holder=%s status=%s quantity=%d\n",
		final.ID, final.DrugName, final.CurrentHolder, final.Status, final.Quantity)
	fmt.Fprintf(w, "chain height: %d\n", sc.NetworkInfo().BlockNumber)

	return nil
}
