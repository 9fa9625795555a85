package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wellness-backend/internal/checkins/adaptation"
	"wellness-backend/internal/protocols/consolidation"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wellnessctl",
		Short:         "Consolidate protocols and derive plan modifiers from local files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newConsolidateCmd(), newCheckinCmd())
	return root
}

func newConsolidateCmd() *cobra.Command {
	var file, policyFile string
	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Merge a JSON array of recommendation batches into one protocol",
		Long: `Reads a JSON array of batches ({"id","sourceType","sourceAssessmentId","createdAt","items"})
and prints the consolidated protocol. --policy points at a YAML item type override:

  item_types:
    optimization: exercise`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			var batches []consolidation.Batch
			if err := json.Unmarshal(data, &batches); err != nil {
				return fmt.Errorf("decode batches: %w", err)
			}

			policy := consolidation.DefaultPolicy()
			if strings.TrimSpace(policyFile) != "" {
				policy, err = consolidation.LoadPolicy(policyFile)
				if err != nil {
					return err
				}
			}

			protocol, err := consolidation.Consolidator{Classifier: policy}.Consolidate(batches)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), protocol)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "batches JSON file (- for stdin)")
	cmd.Flags().StringVar(&policyFile, "policy", "", "item type policy YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

type checkinOutput struct {
	Checkin   adaptation.NormalizedCheckin `json:"checkin"`
	Modifiers adaptation.PlanModifiers     `json:"modifiers"`
}

func newCheckinCmd() *cobra.Command {
	var file, day string
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Normalize check-in answers and print the derived plan modifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			var raw adaptation.RawCheckin
			if err := json.Unmarshal(data, &raw); err != nil {
				return fmt.Errorf("decode answers: %w", err)
			}

			var normalized adaptation.NormalizedCheckin
			if strings.TrimSpace(day) == "" {
				normalized = adaptation.Normalize(raw, time.Now())
			} else {
				if _, err := time.Parse(adaptation.DateLayout, day); err != nil {
					return fmt.Errorf("--date must be yyyy-MM-dd: %w", err)
				}
				normalized = adaptation.NormalizeForDay(raw, day)
			}
			return writeJSON(cmd.OutOrStdout(), checkinOutput{
				Checkin:   normalized,
				Modifiers: adaptation.DerivePlanModifiers(normalized),
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "answers JSON file (- for stdin)")
	cmd.Flags().StringVar(&day, "date", "", "check-in date, defaults to today")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
