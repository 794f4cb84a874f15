package cli

import (
	"context"
	"fmt"

	"github.com/gabapcia/medchain/internal/pkg/logger"
	"github.com/gabapcia/medchain/internal/txsim"

	"github.com/urfave/cli/v3"
)

func actionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "action",
			Usage:    "Supply-chain action tag (e.g., CREATE_BATCH, TRANSFER_TO_DISTRIBUTOR)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "payload",
			Usage: "JSON object describing the operation",
			Value: "{}",
		},
	}
}

func readAction(ctx context.Context, c *cli.Command) (txsim.Action, txsim.Payload, error) {
	action := txsim.Action(c.String("action"))
	if !action.Known() {
		logger.Warn(ctx, "unknown action, the default gas rate applies",
			"tx.action", action,
			"known_actions", txsim.Actions(),
		)
	}

	payload, err := parsePayload(c.String("payload"))
	if err != nil {
		return "", nil, fmt.Errorf("invalid payload: %w", err)
	}

	return action, payload, nil
}

// submitCommand returns a CLI command that submits a simulated transaction and
// prints the confirmed record.
//
// Usage example:
//
//	medchain submit --action CREATE_BATCH --payload '{"drugName":"Paracetamol","quantity":500}'
func submitCommand(sim txsim.Service) *cli.Command {
	return &cli.Command{
		Name:        "submit",
		Description: "Submit a simulated transaction and wait for its confirmation.",
		Usage:       "Submits a transaction for the given action and prints it once confirmed.",
		Flags: append(actionFlags(),
			&cli.StringFlag{
				Name:  "from",
				Usage: "Sender address, synthesized when omitted",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "Recipient address, synthesized when omitted",
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			action, payload, err := readAction(ctx, c)
			if err != nil {
				return err
			}

			tx, err := sim.SubmitTransaction(ctx, action, payload, c.String("from"), c.String("to"))
			if err != nil {
				return err
			}

			return printJSON(c.Root().Writer, tx)
		},
	}
}

// estimateCommand returns a CLI command that prints the gas estimate of an
// action.
//
// Usage example:
//
//	medchain estimate --action TRANSFER_TO_DISTRIBUTOR
func estimateCommand(sim txsim.Service) *cli.Command {
	return &cli.Command{
		Name:        "estimate",
		Description: "Estimate the gas and cost of an action without submitting it.",
		Usage:       "Prints gas used, gas limit and estimated cost in wei.",
		Flags:       actionFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			action, payload, err := readAction(ctx, c)
			if err != nil {
				return err
			}

			return printJSON(c.Root().Writer, sim.EstimateGas(action, payload))
		},
	}
}

type networkOutput struct {
	Info   txsim.NetworkInfo   `json:"info"`
	Status txsim.NetworkStatus `json:"status"`
}

func networkCommand(sim txsim.Service) *cli.Command {
	return &cli.Command{
		Name:        "network",
		Description: "Show the simulated network identity and status.",
		Usage:       "Prints chain id, block number, fee parameters and peer status.",
		Action: func(ctx context.Context, c *cli.Command) error {
			return printJSON(c.Root().Writer, networkOutput{
				Info:   sim.NetworkInfo(),
				Status: sim.NetworkStatus(),
			})
		},
	}
}

type balanceOutput struct {
	Address string `json:"address"`
	Wei     string `json:"wei"`
}

func balanceCommand(sim txsim.Service) *cli.Command {
	return &cli.Command{
		Name:        "balance",
		Description: "Show a simulated account balance.",
		Usage:       "Prints a random balance in wei for the given address.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Account address",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			address := c.String("address")

			return printJSON(c.Root().Writer, balanceOutput{
				Address: address,
				Wei:     sim.Balance(address).Dec(),
			})
		},
	}
}
