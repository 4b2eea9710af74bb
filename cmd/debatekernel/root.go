// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teradata-labs/debatekernel/internal/log"
	"github.com/teradata-labs/debatekernel/internal/version"
	"github.com/teradata-labs/debatekernel/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:     "debatekernel",
	Short:   "Orchestrates structured adversarial debates between AI teams",
	Long:    `debatekernel runs a multi-phase adversarial debate between two AI teams, producing an auditable transcript, a verified citation ledger, a disagreement map, and simulated voter sentiment over time.`,
	Version: version.Get(),
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("data-dir", config.GetDataDir(), "debate data directory")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	viper.SetDefault("model_debator", "claude-sonnet-4-5")
	viper.SetDefault("model_judge", "claude-sonnet-4-5")
	viper.SetDefault("model_factchecker", "claude-sonnet-4-5")
	viper.SetDefault("model_crowd", "claude-haiku-4-5")
	viper.SetDefault("bias_threshold", 0.6)

	rootCmd.AddCommand(runCmd, resumeCmd)
}

func initConfig() {
	viper.SetEnvPrefix("DEBATEKERNEL")
	viper.AutomaticEnv()

	if err := log.InitFromFormat(viper.GetString("log_format"), viper.GetString("log_level")); err != nil {
		fmt.Fprintf(os.Stderr, "error initializing logger: %v\n", err)
		os.Exit(1)
	}
}
