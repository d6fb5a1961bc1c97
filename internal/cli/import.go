package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"quiz-exam-service/internal/app"
	"quiz-exam-service/internal/config"
	"quiz-exam-service/internal/domain"
	"quiz-exam-service/internal/logging"
)

// NewImportQuestionsCmd replaces the question catalog with a JSON question bank.
func NewImportQuestionsCmd(configPath *string) *cobra.Command {
	var (
		file    string
		setSize int
	)
	cmd := &cobra.Command{
		Use:   "import-questions",
		Short: "Replace the question catalog with a question bank, split into numbered sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := requirePostgres(cfg, "import-questions"); err != nil {
				return err
			}
			log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			bank, err := parseQuestionBank(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
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

			sets, err := app.NewCatalogService(stores.questions).ImportQuestions(ctx, bank, setSize)
			if err != nil {
				return err
			}
			for _, s := range sets {
				log.WithField("set", s.SetNumber).WithField("questions", s.QuestionCount).Info("question set imported")
			}
			log.WithField("total", len(bank)).Info("import complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "qna.json", "question bank JSON file")
	cmd.Flags().IntVar(&setSize, "set-size", app.DefaultSetSize, "questions per set")
	return cmd
}

// bankItem is one entry of a question bank file. Options may be an object keyed by option
// id or a list of {id, text}; correct_answer may be a single id or a list.
type bankItem struct {
	Text          string          `json:"question_text"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer json.RawMessage `json:"correct_answer"`
	// correct_answers is accepted for banks exported from the service itself.
	CorrectAnswers []string `json:"correct_answers"`
	Category       string   `json:"category"`
	Difficulty     string   `json:"difficulty"`
}

func parseQuestionBank(data []byte) ([]app.QuestionInput, error) {
	var items []bankItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}

	bank := make([]app.QuestionInput, 0, len(items))
	for i, item := range items {
		options, err := parseOptions(item.Options)
		if err != nil {
			return nil, fmt.Errorf("question %d options: %w", i+1, err)
		}
		correct := item.CorrectAnswers
		if len(correct) == 0 {
			correct, err = parseCorrectAnswer(item.CorrectAnswer)
			if err != nil {
				return nil, fmt.Errorf("question %d correct_answer: %w", i+1, err)
			}
		}
		bank = append(bank, app.QuestionInput{
			Text:           item.Text,
			Options:        options,
			CorrectAnswers: correct,
			Category:       item.Category,
			Difficulty:     item.Difficulty,
		})
	}
	return bank, nil
}

func parseOptions(raw json.RawMessage) ([]domain.Option, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var list []domain.Option
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var byID map[string]string
	if err := json.Unmarshal(raw, &byID); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	options := make([]domain.Option, 0, len(ids))
	for _, id := range ids {
		options = append(options, domain.Option{ID: id, Text: byID[id]})
	}
	return options, nil
}

func parseCorrectAnswer(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var list []string
		err := json.Unmarshal(raw, &list)
		return list, err
	}
	var single string
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []string{single}, nil
}
