package cli

import (
	"context"
	"os"

	"github.com/gabapcia/medchain/internal/supplychain"
	"github.com/gabapcia/medchain/internal/txsim"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the medchain CLI application.
//
// It registers all available commands, including:
//
//   - `submit`: Submits a simulated transaction and waits for its confirmation.
//   - `estimate`: Prices an action without submitting it.
//   - `network`: Prints the simulated network identity and status.
//   - `balance`: Prints a simulated account balance.
//   - `demo`: Runs a scripted supply-chain flow end to end.
func Run(ctx context.Context, sim txsim.Service, sc supplychain.Service) error {
	return newApp(sim, sc).Run(ctx, os.Args)
}

func newApp(sim txsim.Service, sc supplychain.Service) *cli.Command {
	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "medchain",
		Description:           "Command-line interface for the simulated pharmaceutical supply-chain ledger.",
		Usage:                 "medchain [command] [flags]",
		Commands: []*cli.Command{
			submitCommand(sim),
			estimateCommand(sim),
			networkCommand(sim),
			balanceCommand(sim),
			demoCommand(sc),
		},
	}
}
