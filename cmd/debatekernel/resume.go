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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teradata-labs/debatekernel/internal/costgov"
	"github.com/teradata-labs/debatekernel/internal/kernel"
	"github.com/teradata-labs/debatekernel/pkg/llm/anthropic"
)

var (
	resumeCrowdSize int
	resumePreset    string
)

var resumeCmd = &cobra.Command{
	Use:   "resume <debate_id>",
	Short: "Resume a debate from its last checkpoint",
	Args:  cobra.ExactArgs(1),
	RunE:  runResume,
}

func init() {
	resumeCmd.Flags().IntVar(&resumeCrowdSize, "crowd-size", 100, "number of crowd personas (must match the original run)")
	resumeCmd.Flags().StringVar(&resumePreset, "preset", "balanced", "cost preset (must match the original run)")
}

func runResume(cmd *cobra.Command, args []string) error {
	debateID := args[0]

	cfg := kernel.Config{
		DataDir:        viper.GetString("data_dir"),
		CrowdSize:      resumeCrowdSize,
		Preset:         costgov.Preset(resumePreset),
		BiasThreshold:  viper.GetFloat64("bias_threshold"),
		Client:         anthropic.NewClient(anthropic.Config{}),
		ModelDebator:   viper.GetString("model_debator"),
		ModelJudge:     viper.GetString("model_judge"),
		ModelFactCheck: viper.GetString("model_factchecker"),
		ModelCrowd:     viper.GetString("model_crowd"),
	}

	return kernel.Resume(context.Background(), cfg, debateID)
}
