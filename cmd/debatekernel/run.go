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
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teradata-labs/debatekernel/internal/costgov"
	"github.com/teradata-labs/debatekernel/internal/kernel"
	"github.com/teradata-labs/debatekernel/pkg/llm/anthropic"
)

var runCmd = &cobra.Command{
	Use:   "run <topic>",
	Short: "Start a new debate",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().Int("rounds", 2, "number of rebuttal rounds after opening")
	runCmd.Flags().String("preset", "balanced", "cost preset (conservative, balanced, premium)")
	runCmd.Flags().Int("crowd-size", 100, "number of crowd personas")

	_ = viper.BindPFlag("rounds", runCmd.Flags().Lookup("rounds"))
	_ = viper.BindPFlag("cost_preset", runCmd.Flags().Lookup("preset"))
	_ = viper.BindPFlag("crowd_size", runCmd.Flags().Lookup("crowd-size"))
}

func runRun(cmd *cobra.Command, args []string) error {
	topic := args[0]

	cfg := kernel.Config{
		DataDir:        viper.GetString("data_dir"),
		Topic:          topic,
		Rounds:         viper.GetInt("rounds"),
		CrowdSize:      viper.GetInt("crowd_size"),
		Preset:         costgov.Preset(viper.GetString("cost_preset")),
		BiasThreshold:  viper.GetFloat64("bias_threshold"),
		Client:         anthropic.NewClient(anthropic.Config{}),
		ModelDebator:   viper.GetString("model_debator"),
		ModelJudge:     viper.GetString("model_judge"),
		ModelFactCheck: viper.GetString("model_factchecker"),
		ModelCrowd:     viper.GetString("model_crowd"),
	}

	id, err := kernel.Run(context.Background(), cfg)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}
