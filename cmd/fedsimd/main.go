package main

import (
	"log"

	"github.com/absmach/fedsim/fedsimd"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fedsimd",
		Short: "Fedsim Daemon",
		Long:  `Fedsim Daemon runs federated averaging simulations.`,
	}

	simulationCmd := fedsimd.NewSimulationCmd()

	rootCmd.AddCommand(simulationCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
