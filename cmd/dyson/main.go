package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile  string
	catalogFile string
	savePath    string
	quiet       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dyson",
		Short: "Dyson swarm idle economy",
		Long: `An idle progression game from orbital rocketry to a Kardashev Type II
Dyson swarm. Every command loads the save, credits offline progress, applies
the command and saves again.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to dyson.yaml")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "Path to a catalog YAML overriding the embedded one")
	rootCmd.PersistentFlags().StringVarP(&savePath, "save", "s", "", "Save location (overrides storage.path)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	rootCmd.AddCommand(
		newStatusCmd(),
		newSimulateCmd(),
		newBuildCmd(),
		newCancelCmd(),
		newResearchCmd(),
		newAutoResearchCmd(),
		newResetCmd(),
		newCatalogCmd(),
		newAdviseCmd(),
		newPlayCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
