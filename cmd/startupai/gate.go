package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shubh-37/startupai/internal/gate"
	"github.com/shubh-37/startupai/internal/models"
)

type gateReport struct {
	Stage          gate.Stage  `json:"stage"`
	Status         gate.Status `json:"status"`
	Reasons        []string    `json:"reasons"`
	ReadinessScore float64     `json:"readinessScore"`
	EvidenceCount  int         `json:"evidenceCount"`
	NextStage      gate.Stage  `json:"nextStage,omitempty"`
}

func newGateCmd() *cobra.Command {
	var (
		stageName    string
		criteriaPath string
	)

	cmd := &cobra.Command{
		Use:   "gate <evidence.json>",
		Short: "Evaluate a stage gate against an evidence file",
		Long: `Evaluate a stage gate against a JSON array of evidence items.
Criteria default to the built-in thresholds for the stage; --criteria
loads overrides from a YAML file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := gate.ParseStage(stageName)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read evidence: %w", err)
			}
			var evidence []*models.Evidence
			if err := json.Unmarshal(raw, &evidence); err != nil {
				return fmt.Errorf("failed to parse evidence: %w", err)
			}

			var custom *gate.Criteria
			if criteriaPath != "" {
				if custom, err = readCriteria(criteriaPath); err != nil {
					return err
				}
			}

			status, reasons := gate.Evaluate(stage, evidence, custom)
			if len(evidence) == 0 {
				status, reasons = gate.StatusPending, []string{"No evidence collected yet"}
			}
			report := gateReport{
				Stage:          stage,
				Status:         status,
				Reasons:        reasons,
				ReadinessScore: gate.ReadinessScore(stage, evidence),
				EvidenceCount:  len(evidence),
			}
			if gate.CanProgress(stage, status) {
				report.NextStage, _ = gate.NextStage(stage)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVarP(&stageName, "stage", "s", string(gate.StageDesirability), "stage to evaluate")
	cmd.Flags().StringVar(&criteriaPath, "criteria", "", "YAML file with criteria overrides")
	return cmd
}

func readCriteria(path string) (*gate.Criteria, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read criteria: %w", err)
	}
	c := &gate.Criteria{}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("failed to parse criteria: %w", err)
	}
	return c, nil
}
