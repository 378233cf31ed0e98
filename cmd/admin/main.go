// Command admin консольные операции обслуживания: импорт CSV, восстановление данных,
// подсчёт броней и генерация демо-данных.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ClinicBoxService/internal/config"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "clinicbox-admin",
		Short:         "SMC-ClinicBoxService administration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.Path(), "Path to config.toml")

	rootCmd.AddCommand(importCmd(&configPath))
	rootCmd.AddCommand(rescueCmd(&configPath))
	rootCmd.AddCommand(countCmd(&configPath))
	rootCmd.AddCommand(seedCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
