package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/hajjdash/pkg/sample"
	"github.com/mchmarny/hajjdash/pkg/score"
	"github.com/urfave/cli/v3"
)

const (
	flagAge         = "age"
	flagSalary      = "salary"
	flagDependents  = "dependents"
	flagHealth      = "health"
	flagOccupation  = "occupation"
	flagDeferments  = "deferments"
	flagSize        = "size"
	flagConcurrency = "concurrency"
)

// scoreOutput pairs the scored profile with its result.
type scoreOutput struct {
	Profile score.Profile `json:"profile" yaml:"profile"`
	Result  score.Result  `json:"result" yaml:"result"`
}

func newScoreCmd() *cli.Command {
	return &cli.Command{
		Name:   "score",
		Usage:  "Predict whether a candidate is likely to accept a Hajj offer",
		Action: cmdScore,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  flagAge,
				Usage: fmt.Sprintf("Candidate age (%d-%d)", score.MinAge, score.MaxAge),
				Value: 45,
			},
			&cli.IntFlag{
				Name:  flagSalary,
				Usage: fmt.Sprintf("Monthly salary in MYR (%d-%d)", score.MinSalary, score.MaxSalary),
				Value: 5000,
			},
			&cli.IntFlag{
				Name:  flagDependents,
				Usage: fmt.Sprintf("Number of dependents (0-%d)", score.MaxDependents),
				Value: 2,
			},
			&cli.StringFlag{
				Name:  flagHealth,
				Usage: "Health status [Excellent, Good, Fair, Poor]",
				Value: string(score.HealthExcellent),
			},
			&cli.StringFlag{
				Name:  flagOccupation,
				Usage: "Occupation sector [Government, Private, Self-Employed, Retired, Other]",
				Value: string(score.OccupationGovernment),
			},
			&cli.IntFlag{
				Name:  flagDeferments,
				Usage: fmt.Sprintf("Previous deferments (0-%d)", score.MaxDeferments),
				Value: 0,
			},
		},
	}
}

func cmdScore(_ context.Context, cmd *cli.Command) error {
	health, err := score.ParseHealth(cmd.String(flagHealth))
	if err != nil {
		return err
	}
	occupation, err := score.ParseOccupation(cmd.String(flagOccupation))
	if err != nil {
		return err
	}

	p := score.Profile{
		Age:           cmd.Int(flagAge),
		MonthlySalary: cmd.Int(flagSalary),
		Dependents:    cmd.Int(flagDependents),
		Health:        health,
		Deferments:    cmd.Int(flagDeferments),
		Occupation:    occupation,
	}

	res, err := score.Evaluate(p)
	if err != nil {
		return err
	}
	slog.Debug("scored", "label", res.Label, "confidence", res.Confidence, "factors", len(res.Factors))

	return output(cmd, scoreOutput{Profile: p, Result: res})
}

func newBatchCmd() *cli.Command {
	return &cli.Command{
		Name:   "batch",
		Usage:  "Generate and score a synthetic candidate sample",
		Action: cmdBatch,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  flagSize,
				Usage: "Number of candidates (default: sample.size from config)",
			},
			&cli.Uint64Flag{
				Name:  flagSeed,
				Usage: "Sample seed, 0 draws a random seed (default: sample.seed from config)",
			},
			&cli.IntFlag{
				Name:  flagConcurrency,
				Usage: "Scoring concurrency, 0 uses all CPUs (default: scoring.concurrency from config)",
			},
		},
	}
}

func cmdBatch(ctx context.Context, cmd *cli.Command) error {
	conf := getConfig(cmd).Config

	size := conf.Sample.Size
	if cmd.IsSet(flagSize) {
		size = cmd.Int(flagSize)
	}
	seed := conf.Sample.Seed
	if cmd.IsSet(flagSeed) {
		seed = cmd.Uint64(flagSeed)
	}
	concurrency := conf.Scoring.Concurrency
	if cmd.IsSet(flagConcurrency) {
		concurrency = cmd.Int(flagConcurrency)
	}

	b, err := sample.Build(ctx, sample.NewGenerator(seed), size, concurrency)
	if err != nil {
		return fmt.Errorf("building sample: %w", err)
	}
	slog.Debug("sample built", "size", size, "seed", b.Seed, "accept", b.Summary.Accept)

	return output(cmd, sampleResponse{
		Dimensions: sample.Dimensions(),
		Batch:      b,
	})
}
