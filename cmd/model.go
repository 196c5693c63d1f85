package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var modelFile string

// modelCmd represents the model command
var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Show or push the pricing model",
	Long: `Show the current pricing model.

With -f, the model in the given JSON or YAML file is pushed to Tier.`,
	Args: cobra.NoArgs,
	RunE: runModel,
}

func init() {
	modelCmd.Flags().StringVarP(&modelFile, "file", "f", "", "JSON or YAML pricing model to push")
}

func runModel(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var model json.RawMessage
	if modelFile != "" {
		var err error
		model, err = loadModelFile(modelFile)
		if err != nil {
			return err
		}
		logger.Info().Str("file", modelFile).Int("bytes", len(model)).Msg("Pushing pricing model")
	}

	result, err := client.Model(ctx, model)
	if err != nil {
		return fmt.Errorf("model: %w", err)
	}
	return printResult(cmd.OutOrStdout(), result, cfg.Output.Format)
}
