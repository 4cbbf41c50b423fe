// compare-models runs the description generation chain for two models over
// the same schema CSV and scores both outputs with the heuristic quality
// metrics, printing the comparison as JSON.
//
// The CSV must have table_name and column_name headers, one row per column.
//
// Usage: go run ./scripts/compare-models <schema.csv> <model-a> <model-b>
//
// Provider configuration comes from config.yaml and the environment, the
// same way the server reads it (LOCAL_AI_BASE_URL, ANTHROPIC_API_KEY, ...).
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhgao/banking-metadata-description-ai/pkg/config"
	"github.com/zhgao/banking-metadata-description-ai/pkg/domain"
	"github.com/zhgao/banking-metadata-description-ai/pkg/llm"
	"github.com/zhgao/banking-metadata-description-ai/pkg/models"
	"github.com/zhgao/banking-metadata-description-ai/pkg/services"
)

// Output is the full comparison report.
type Output struct {
	Rows       int                     `json:"rows"`
	Comparison models.ComparisonResult `json:"comparison"`
	ModelA     ModelRun                `json:"model_a"`
	ModelB     ModelRun                `json:"model_b"`
}

// ModelRun captures one model's generation pass.
type ModelRun struct {
	Model        string          `json:"model"`
	ModelVersion string          `json:"model_version"`
	Provider     models.Provider `json:"provider"`
	UsedLLM      bool            `json:"used_llm"`
	Descriptions []string        `json:"descriptions"`
}

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintf(os.Stderr, "Usage: %s <schema.csv> <model-a> <model-b>\n", os.Args[0])
		os.Exit(1)
	}
	csvPath, modelA, modelB := os.Args[1], os.Args[2], os.Args[3]

	_ = godotenv.Load()

	cfg, err := config.Load("dev")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	rows, err := readSchemaCSV(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", csvPath, err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No data rows in CSV")
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	knowledge := domain.Load(cfg.Data.TermsPath, logger.Named("domain"))
	rules := services.NewRuleEngine(knowledge)
	factory := llm.NewFactory(cfg, logger.Named("llm"))
	svc := services.NewDescriptionService(factory, rules, knowledge, cfg.Generation, logger)

	ctx := context.Background()

	runA, err := runModel(ctx, svc, rows, modelA)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation failed for %s: %v\n", modelA, err)
		os.Exit(1)
	}
	runB, err := runModel(ctx, svc, rows, modelB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation failed for %s: %v\n", modelB, err)
		os.Exit(1)
	}

	output := Output{
		Rows:       len(rows),
		Comparison: services.CompareModels(modelA, modelB, runA.Descriptions, runB.Descriptions),
		ModelA:     runA,
		ModelB:     runB,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
		os.Exit(1)
	}
}

func runModel(ctx context.Context, svc services.DescriptionService, rows []models.SchemaRow, model string) (ModelRun, error) {
	result, err := svc.GenerateForRows(ctx, rows, model)
	if err != nil {
		return ModelRun{}, err
	}
	return ModelRun{
		Model:        model,
		ModelVersion: result.ModelVersion,
		Provider:     result.Provider,
		UsedLLM:      result.UsedLLM,
		Descriptions: result.Descriptions,
	}, nil
}

func readSchemaCSV(path string) ([]models.SchemaRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("empty CSV")
	}

	headers := all[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}
	tableIdx, columnIdx := -1, -1
	for i, h := range headers {
		switch strings.TrimSpace(h) {
		case "table_name":
			tableIdx = i
		case "column_name":
			columnIdx = i
		}
	}
	if tableIdx < 0 || columnIdx < 0 {
		return nil, fmt.Errorf("CSV must have headers: table_name, column_name")
	}

	rows := make([]models.SchemaRow, 0, len(all)-1)
	for _, record := range all[1:] {
		if tableIdx >= len(record) || columnIdx >= len(record) {
			continue
		}
		rows = append(rows, models.SchemaRow{
			TableName:  strings.TrimSpace(record[tableIdx]),
			ColumnName: strings.TrimSpace(record[columnIdx]),
		})
	}
	return rows, nil
}
