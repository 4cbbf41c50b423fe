package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zhgao/banking-metadata-description-ai/pkg/config"
	"github.com/zhgao/banking-metadata-description-ai/pkg/llm"
	"github.com/zhgao/banking-metadata-description-ai/pkg/models"
)

func testGenConfig() config.GenerationConfig {
	return config.GenerationConfig{
		PreferLocal:           true,
		ConfidenceThreshold:   0.75,
		MaxSampleValues:       5,
		RequestTimeoutSeconds: 5,
	}
}

func newTestService(t *testing.T, factory llm.ClientFactory, gen config.GenerationConfig) DescriptionService {
	t.Helper()
	knowledge := emptyKnowledge(t)
	return NewDescriptionService(factory, NewRuleEngine(knowledge), knowledge, gen, zap.NewNop())
}

func respondingClient(model, response string) *llm.MockClient {
	client := llm.NewMockClient()
	client.Model = model
	client.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temperature float64) (string, error) {
		return response, nil
	}
	return client
}

func failingClient(model string) *llm.MockClient {
	client := llm.NewMockClient()
	client.Model = model
	client.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temperature float64) (string, error) {
		return "", errors.New("connection refused")
	}
	return client
}

var testRows = []models.SchemaRow{
	{TableName: "customer_account", ColumnName: "acct_open_dt"},
	{TableName: "customer_account", ColumnName: "customer_email"},
}

func TestGenerateForRows_LocalProviderWins(t *testing.T) {
	factory := &llm.MockFactory{
		LocalClient:  respondingClient("local-model", `{"descriptions": [" Account opening date. ", "Customer contact email."]}`),
		RemoteClient: respondingClient("remote-model", `{"descriptions": ["x", "y"]}`),
	}
	svc := newTestService(t, factory, testGenConfig())

	result, err := svc.GenerateForRows(context.Background(), testRows, "")
	require.NoError(t, err)

	assert.Equal(t, models.ProviderLocal, result.Provider)
	assert.True(t, result.UsedLLM)
	assert.Equal(t, "local-model", result.ModelVersion)
	// Strings are trimmed on acceptance.
	assert.Equal(t, []string{"Account opening date.", "Customer contact email."}, result.Descriptions)
	assert.Equal(t, 0, factory.RemoteClient.GenerateResponseCalls)
}

func TestGenerateForRows_FallsThroughToRemote(t *testing.T) {
	tests := []struct {
		name  string
		local *llm.MockClient
	}{
		{"transport error", failingClient("local-model")},
		{"malformed JSON", respondingClient("local-model", "not json at all")},
		{"wrong length", respondingClient("local-model", `{"descriptions": ["only one"]}`)},
		{"non-string element", respondingClient("local-model", `{"descriptions": ["ok", 42]}`)},
		{"missing field", respondingClient("local-model", `{"items": ["a", "b"]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := &llm.MockFactory{
				LocalClient:  tt.local,
				RemoteClient: respondingClient("remote-model", `{"descriptions": ["From remote.", "Also remote."]}`),
			}
			svc := newTestService(t, factory, testGenConfig())

			result, err := svc.GenerateForRows(context.Background(), testRows, "")
			require.NoError(t, err)

			assert.Equal(t, models.ProviderRemote, result.Provider)
			assert.True(t, result.UsedLLM)
			assert.Equal(t, 1, tt.local.GenerateResponseCalls)
			assert.Len(t, result.Descriptions, len(testRows))
		})
	}
}

func TestGenerateForRows_AllProvidersDownFallsBackToRules(t *testing.T) {
	factory := &llm.MockFactory{
		LocalClient:  failingClient("local-model"),
		RemoteClient: failingClient("remote-model"),
	}
	svc := newTestService(t, factory, testGenConfig())

	result, err := svc.GenerateForRows(context.Background(), testRows, "")
	require.NoError(t, err)

	assert.Equal(t, models.ProviderRules, result.Provider)
	assert.False(t, result.UsedLLM)
	assert.Equal(t, models.RuleModelVersion, result.ModelVersion)
	assert.Equal(t, []string{
		"Account open date in `customer_account`.",
		"Customer email in `customer_account`.",
	}, result.Descriptions)
}

func TestGenerateForRows_NoProvidersConfigured(t *testing.T) {
	svc := newTestService(t, &llm.MockFactory{}, testGenConfig())

	result, err := svc.GenerateForRows(context.Background(), []models.SchemaRow{
		{TableName: "customer_account", ColumnName: "acct_open_dt"},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, models.ProviderRules, result.Provider)
	assert.False(t, result.UsedLLM)
	assert.Equal(t, []string{"Account open date in `customer_account`."}, result.Descriptions)
}

func TestGenerateForRows_PreferLocalFalseSkipsLocal(t *testing.T) {
	factory := &llm.MockFactory{
		LocalClient:  respondingClient("local-model", `{"descriptions": ["a", "b"]}`),
		RemoteClient: respondingClient("remote-model", `{"descriptions": ["From remote.", "Also remote."]}`),
	}
	gen := testGenConfig()
	gen.PreferLocal = false
	svc := newTestService(t, factory, gen)

	result, err := svc.GenerateForRows(context.Background(), testRows, "")
	require.NoError(t, err)

	assert.Equal(t, models.ProviderRemote, result.Provider)
	assert.Empty(t, factory.LocalModels)
	assert.Equal(t, 0, factory.LocalClient.GenerateResponseCalls)
}

func TestGenerateForRows_PreferredModelReachesFactory(t *testing.T) {
	factory := &llm.MockFactory{
		LocalClient: respondingClient("qwen2.5:3b", `{"descriptions": ["a", "b"]}`),
	}
	svc := newTestService(t, factory, testGenConfig())

	_, err := svc.GenerateForRows(context.Background(), testRows, "qwen2.5:3b")
	require.NoError(t, err)

	assert.Equal(t, []string{"qwen2.5:3b"}, factory.LocalModels)
}

func TestGenerateForRows_EmptyBatch(t *testing.T) {
	factory := &llm.MockFactory{
		LocalClient: respondingClient("local-model", `{"descriptions": []}`),
	}
	svc := newTestService(t, factory, testGenConfig())

	result, err := svc.GenerateForRows(context.Background(), nil, "")
	require.NoError(t, err)

	// No provider call is made for an empty batch.
	assert.Equal(t, 0, factory.LocalClient.GenerateResponseCalls)
	assert.Equal(t, models.ProviderRules, result.Provider)
	assert.Empty(t, result.Descriptions)
}

var testGenerateRequest = &models.GenerateRequest{
	TableName: "customer_account",
	Columns: []models.ColumnInput{
		{ColumnName: "acct_open_dt", DataType: "date", Constraints: []string{"not_null"}, SampleValues: []string{"2023-06-01"}},
		{ColumnName: "customer_email", DataType: "varchar(255)"},
	},
}

func TestGenerate_LLMPathNormalizesFlexibleFields(t *testing.T) {
	response := `{
		"table_description": "Retail account master data.",
		"columns": [
			{"column_name": "acct_open_dt", "column_description": "Date the account was opened.", "business_meaning": "Account lifecycle tracking.", "pii_flag": "false", "confidence": "0.9"},
			{"column_name": "customer_email", "column_description": "Primary customer email.", "business_meaning": "Customer contact channel.", "pii_flag": true, "confidence": 1.4}
		]
	}`
	factory := &llm.MockFactory{LocalClient: respondingClient("local-model", response)}
	svc := newTestService(t, factory, testGenConfig())

	resp, err := svc.Generate(context.Background(), testGenerateRequest)
	require.NoError(t, err)

	assert.Equal(t, "Retail account master data.", resp.TableDescription)
	assert.Equal(t, "local-model", resp.ModelVersion)
	require.Len(t, resp.Columns, 2)

	assert.False(t, resp.Columns[0].PIIFlag)
	assert.Equal(t, 0.9, resp.Columns[0].Confidence)
	assert.True(t, resp.Columns[1].PIIFlag)
	// Out-of-range confidence is clamped.
	assert.Equal(t, 1.0, resp.Columns[1].Confidence)
	assert.False(t, resp.NeedsReview)
}

func TestGenerate_LowConfidenceFlagsReview(t *testing.T) {
	response := `{
		"table_description": "Retail account master data.",
		"columns": [
			{"column_name": "acct_open_dt", "column_description": "Date opened.", "business_meaning": "Lifecycle.", "pii_flag": false, "confidence": 0.5},
			{"column_name": "customer_email", "column_description": "Email.", "business_meaning": "Contact.", "pii_flag": true, "confidence": 0.9}
		]
	}`
	factory := &llm.MockFactory{LocalClient: respondingClient("local-model", response)}
	svc := newTestService(t, factory, testGenConfig())

	resp, err := svc.Generate(context.Background(), testGenerateRequest)
	require.NoError(t, err)

	assert.True(t, resp.NeedsReview)
}

func TestGenerate_WrongColumnCountFallsBack(t *testing.T) {
	response := `{"table_description": "x", "columns": [{"column_name": "only_one", "column_description": "d", "business_meaning": "m", "pii_flag": false, "confidence": 0.8}]}`
	factory := &llm.MockFactory{LocalClient: respondingClient("local-model", response)}
	svc := newTestService(t, factory, testGenConfig())

	resp, err := svc.Generate(context.Background(), testGenerateRequest)
	require.NoError(t, err)

	assert.Equal(t, models.RuleModelVersion, resp.ModelVersion)
	assert.Len(t, resp.Columns, len(testGenerateRequest.Columns))
}

func TestGenerate_RuleFallbackAnnotatesEveryColumn(t *testing.T) {
	svc := newTestService(t, &llm.MockFactory{}, testGenConfig())

	resp, err := svc.Generate(context.Background(), testGenerateRequest)
	require.NoError(t, err)

	assert.Equal(t, models.RuleModelVersion, resp.ModelVersion)
	assert.Equal(t, "Stores customer account attributes for banking operations.", resp.TableDescription)
	require.Len(t, resp.Columns, 2)

	openDt := resp.Columns[0]
	assert.Equal(t, "Account open date in `customer_account`.", openDt.ColumnDescription)
	assert.False(t, openDt.PIIFlag)
	assert.Equal(t, 0.99, openDt.Confidence)

	email := resp.Columns[1]
	assert.True(t, email.PIIFlag)
	// 0.55 base + 0.10 multi-token + 0.10 data type
	assert.Equal(t, 0.75, email.Confidence)
	assert.False(t, resp.NeedsReview)
}
