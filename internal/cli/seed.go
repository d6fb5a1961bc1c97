package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"quiz-exam-service/internal/app"
	"quiz-exam-service/internal/config"
	"quiz-exam-service/internal/domain"
	"quiz-exam-service/internal/logging"
)

// NewSeedCodingCmd loads coding practice problems from a YAML seed file.
func NewSeedCodingCmd(configPath *string) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "seed-coding",
		Short: "Insert coding practice problems from a YAML seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := requirePostgres(cfg, "seed-coding"); err != nil {
				return err
			}
			log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			questions, err := parseCodingSeed(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}

			ctx := cmd.Context()
			if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
				return err
			}
			stores, err := openBackend(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer stores.Close()

			n, err := app.NewCodingService(stores.coding).SeedQuestions(ctx, questions)
			if err != nil {
				return err
			}
			log.WithField("count", n).Info("coding questions seeded")
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "seeds/coding_questions.yaml", "YAML seed file")
	return cmd
}

type seedTestCase struct {
	Input  interface{} `yaml:"input"`
	Output interface{} `yaml:"output"`
}

type seedQuestion struct {
	Title       string                 `yaml:"title"`
	Language    string                 `yaml:"language"`
	Difficulty  string                 `yaml:"difficulty"`
	Description string                 `yaml:"description"`
	Examples    []domain.CodingExample `yaml:"examples"`
	Constraints string                 `yaml:"constraints"`
	StarterCode string                 `yaml:"starter_code"`
	TestCases   []seedTestCase         `yaml:"test_cases"`
}

type seedFile struct {
	Questions []seedQuestion `yaml:"questions"`
}

// parseCodingSeed decodes a seed file. Test case inputs and outputs are free-form YAML and
// are stored as JSON.
func parseCodingSeed(data []byte) ([]domain.CodingQuestion, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	out := make([]domain.CodingQuestion, 0, len(file.Questions))
	for _, q := range file.Questions {
		cases := make([]domain.CodingTestCase, 0, len(q.TestCases))
		for _, tc := range q.TestCases {
			in, err := json.Marshal(tc.Input)
			if err != nil {
				return nil, fmt.Errorf("%s: test case input: %w", q.Title, err)
			}
			outRaw, err := json.Marshal(tc.Output)
			if err != nil {
				return nil, fmt.Errorf("%s: test case output: %w", q.Title, err)
			}
			cases = append(cases, domain.CodingTestCase{Input: in, Output: outRaw})
		}
		examples := q.Examples
		if examples == nil {
			examples = []domain.CodingExample{}
		}
		out = append(out, domain.CodingQuestion{
			Title:       q.Title,
			Language:    q.Language,
			Difficulty:  q.Difficulty,
			Description: q.Description,
			Examples:    examples,
			Constraints: q.Constraints,
			StarterCode: q.StarterCode,
			TestCases:   cases,
		})
	}
	return out, nil
}
