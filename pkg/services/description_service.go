package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zhgao/banking-metadata-description-ai/pkg/config"
	"github.com/zhgao/banking-metadata-description-ai/pkg/domain"
	"github.com/zhgao/banking-metadata-description-ai/pkg/jsonutil"
	"github.com/zhgao/banking-metadata-description-ai/pkg/llm"
	"github.com/zhgao/banking-metadata-description-ai/pkg/logging"
	"github.com/zhgao/banking-metadata-description-ai/pkg/models"
	"github.com/zhgao/banking-metadata-description-ai/pkg/prompts"
)

// generationTemperature keeps provider output stable across runs.
const generationTemperature = 0.1

// DescriptionService generates column descriptions through the provider
// fallback chain: local model, then remote model, then the rule engine.
// It has no fatal error path; the worst case is a fully rule-based result.
type DescriptionService interface {
	// Generate annotates a full table request with descriptions, business
	// meanings, PII flags, and confidence scores.
	Generate(ctx context.Context, req *models.GenerateRequest) (*models.GenerateResponse, error)

	// GenerateForRows produces one description per (table, column) row.
	// preferredModel overrides the configured model for both LLM providers;
	// pass "" for the configured defaults.
	GenerateForRows(ctx context.Context, rows []models.SchemaRow, preferredModel string) (*models.RowGenerationResult, error)
}

type descriptionService struct {
	factory   llm.ClientFactory
	rules     *RuleEngine
	knowledge *domain.Knowledge
	gen       config.GenerationConfig
	logger    *zap.Logger
}

// NewDescriptionService creates the fallback-chain generation service.
func NewDescriptionService(
	factory llm.ClientFactory,
	rules *RuleEngine,
	knowledge *domain.Knowledge,
	gen config.GenerationConfig,
	logger *zap.Logger,
) DescriptionService {
	return &descriptionService{
		factory:   factory,
		rules:     rules,
		knowledge: knowledge,
		gen:       gen,
		logger:    logger.Named("descriptions"),
	}
}

// attempt is one provider slot in the chain, in priority order.
type attempt struct {
	provider models.Provider
	client   llm.Client
}

// chain builds the ordered provider attempts. The local endpoint is only
// attempted when configuration prefers it; the remote provider follows
// whenever it is configured. The rule engine is not in the list because it
// is handled unconditionally by the callers.
func (s *descriptionService) chain(preferredModel string) []attempt {
	var attempts []attempt

	if s.gen.PreferLocal {
		if client, err := s.factory.Local(preferredModel); err == nil {
			attempts = append(attempts, attempt{models.ProviderLocal, client})
		}
	}
	if client, err := s.factory.Remote(preferredModel); err == nil {
		attempts = append(attempts, attempt{models.ProviderRemote, client})
	}

	return attempts
}

// callProvider issues one bounded provider request. There are no retries;
// any failure falls through to the next provider.
func (s *descriptionService) callProvider(ctx context.Context, a attempt, prompt, system string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, time.Duration(s.gen.RequestTimeoutSeconds)*time.Second)
	defer cancel()
	return a.client.GenerateResponse(callCtx, prompt, system, generationTemperature)
}

// rowsPayload is the provider response contract for the batch flow.
type rowsPayload struct {
	Descriptions []string `json:"descriptions"`
}

// GenerateForRows implements DescriptionService. The returned Descriptions
// slice always has the same length and order as rows, regardless of which
// provider answered.
func (s *descriptionService) GenerateForRows(ctx context.Context, rows []models.SchemaRow, preferredModel string) (*models.RowGenerationResult, error) {
	if len(rows) > 0 {
		prompt, err := prompts.BuildRowDescriptionsPrompt(rows)
		if err != nil {
			return nil, err
		}

		for _, a := range s.chain(preferredModel) {
			descriptions, ok := s.tryRows(ctx, a, prompt, len(rows))
			if !ok {
				continue
			}
			s.logger.Info("Generated row descriptions",
				zap.String("provider", string(a.provider)),
				zap.String("model", a.client.GetModel()),
				zap.Int("rows", len(rows)))
			return &models.RowGenerationResult{
				Descriptions: descriptions,
				ModelVersion: a.client.GetModel(),
				Provider:     a.provider,
				UsedLLM:      true,
			}, nil
		}
	}

	descriptions := make([]string, len(rows))
	for i, row := range rows {
		descriptions[i] = s.rules.RowDescription(row.TableName, row.ColumnName)
	}

	s.logger.Info("Generated row descriptions",
		zap.String("provider", string(models.ProviderRules)),
		zap.Int("rows", len(rows)))
	return &models.RowGenerationResult{
		Descriptions: descriptions,
		ModelVersion: models.RuleModelVersion,
		Provider:     models.ProviderRules,
		UsedLLM:      false,
	}, nil
}

// tryRows runs one provider attempt for the batch flow. The response is
// accepted only if it parses as JSON with a descriptions array of exactly
// want strings; anything else discards the attempt silently.
func (s *descriptionService) tryRows(ctx context.Context, a attempt, prompt string, want int) ([]string, bool) {
	response, err := s.callProvider(ctx, a, prompt, prompts.RowDescriptionsSystem)
	if err != nil {
		s.logger.Debug("Provider attempt failed, falling through",
			zap.String("provider", string(a.provider)),
			zap.Error(err))
		return nil, false
	}

	parsed, err := llm.ParseJSONResponse[rowsPayload](response)
	if err != nil {
		s.logger.Debug("Provider response is not valid JSON, falling through",
			zap.String("provider", string(a.provider)),
			zap.Error(err))
		return nil, false
	}

	if len(parsed.Descriptions) != want {
		s.logger.Debug("Provider returned wrong description count, falling through",
			zap.String("provider", string(a.provider)),
			zap.Int("want", want),
			zap.Int("got", len(parsed.Descriptions)))
		return nil, false
	}

	descriptions := make([]string, len(parsed.Descriptions))
	for i, d := range parsed.Descriptions {
		descriptions[i] = strings.TrimSpace(d)
	}
	return descriptions, true
}

// tableColumnResponse tolerates LLMs that quote numbers or return bare
// booleans as strings; jsonutil normalizes the raw fields.
type tableColumnResponse struct {
	ColumnName        json.RawMessage `json:"column_name"`
	ColumnDescription json.RawMessage `json:"column_description"`
	BusinessMeaning   json.RawMessage `json:"business_meaning"`
	PIIFlag           json.RawMessage `json:"pii_flag"`
	Confidence        json.RawMessage `json:"confidence"`
}

type tableResponse struct {
	TableDescription json.RawMessage       `json:"table_description"`
	Columns          []tableColumnResponse `json:"columns"`
}

// Generate implements DescriptionService.
func (s *descriptionService) Generate(ctx context.Context, req *models.GenerateRequest) (*models.GenerateResponse, error) {
	prompt, err := prompts.BuildTableDescriptionsPrompt(req, s.knowledge, s.gen.MaxSampleValues)
	if err != nil {
		return nil, err
	}

	s.logSampleMetadata(req)

	for _, a := range s.chain("") {
		resp, ok := s.tryTable(ctx, a, prompt, len(req.Columns))
		if !ok {
			continue
		}
		resp.NeedsReview = s.needsReview(resp.Columns)
		s.logger.Info("Generated table descriptions",
			zap.String("provider", string(a.provider)),
			zap.String("model", resp.ModelVersion),
			zap.String("table", req.TableName),
			zap.Int("columns", len(resp.Columns)))
		return resp, nil
	}

	columns := make([]models.ColumnDescription, 0, len(req.Columns))
	for _, col := range req.Columns {
		columns = append(columns, s.rules.DescribeColumn(req.TableName, col))
	}

	resp := &models.GenerateResponse{
		TableDescription: s.rules.TableDescription(req),
		Columns:          columns,
		ModelVersion:     models.RuleModelVersion,
		NeedsReview:      s.needsReview(columns),
	}
	s.logger.Info("Generated table descriptions",
		zap.String("provider", string(models.ProviderRules)),
		zap.String("table", req.TableName),
		zap.Int("columns", len(columns)))
	return resp, nil
}

// tryTable runs one provider attempt for the full-table flow. Accepted only
// when the response parses and carries exactly want columns, each with a
// non-empty description.
func (s *descriptionService) tryTable(ctx context.Context, a attempt, prompt string, want int) (*models.GenerateResponse, bool) {
	response, err := s.callProvider(ctx, a, prompt, prompts.TableDescriptionsSystem)
	if err != nil {
		s.logger.Debug("Provider attempt failed, falling through",
			zap.String("provider", string(a.provider)),
			zap.Error(err))
		return nil, false
	}

	parsed, err := llm.ParseJSONResponse[tableResponse](response)
	if err != nil {
		s.logger.Debug("Provider response is not valid JSON, falling through",
			zap.String("provider", string(a.provider)),
			zap.Error(err))
		return nil, false
	}

	if len(parsed.Columns) != want {
		s.logger.Debug("Provider returned wrong column count, falling through",
			zap.String("provider", string(a.provider)),
			zap.Int("want", want),
			zap.Int("got", len(parsed.Columns)))
		return nil, false
	}

	columns := make([]models.ColumnDescription, 0, len(parsed.Columns))
	for _, c := range parsed.Columns {
		col := models.ColumnDescription{
			ColumnName:        jsonutil.FlexibleStringValue(c.ColumnName),
			ColumnDescription: strings.TrimSpace(jsonutil.FlexibleStringValue(c.ColumnDescription)),
			BusinessMeaning:   strings.TrimSpace(jsonutil.FlexibleStringValue(c.BusinessMeaning)),
			PIIFlag:           jsonutil.FlexibleBoolValue(c.PIIFlag),
			Confidence:        clamp01(jsonutil.FlexibleFloatValue(c.Confidence)),
		}
		if col.ColumnDescription == "" {
			s.logger.Debug("Provider returned empty column description, falling through",
				zap.String("provider", string(a.provider)),
				zap.String("column", col.ColumnName))
			return nil, false
		}
		columns = append(columns, col)
	}

	return &models.GenerateResponse{
		TableDescription: strings.TrimSpace(jsonutil.FlexibleStringValue(parsed.TableDescription)),
		Columns:          columns,
		ModelVersion:     a.client.GetModel(),
	}, true
}

// needsReview flags the payload when any column falls below the configured
// confidence threshold.
func (s *descriptionService) needsReview(columns []models.ColumnDescription) bool {
	for _, col := range columns {
		if col.Confidence < s.gen.ConfidenceThreshold {
			return true
		}
	}
	return false
}

// logSampleMetadata debug-logs the shape of an incoming request. Sample
// values are masked; they routinely contain customer PII.
func (s *descriptionService) logSampleMetadata(req *models.GenerateRequest) {
	if !s.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	for _, col := range req.Columns {
		s.logger.Debug("Generate request column",
			zap.String("table", req.TableName),
			zap.String("column", col.ColumnName),
			zap.String("data_type", col.DataType),
			zap.Strings("sample_values", logging.MaskValues(col.SampleValues)))
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
