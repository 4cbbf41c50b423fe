package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeTerms(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "banking_terms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileDegradesToEmpty(t *testing.T) {
	k := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"), zap.NewNop())

	assert.Empty(t, k.MatchTerms("acct_open_dt"))
	assert.Empty(t, k.PIIKeywords())
}

func TestLoad_MalformedFileDegradesToEmpty(t *testing.T) {
	path := writeTerms(t, "terms: [not a map")

	k := Load(path, zap.NewNop())

	assert.Empty(t, k.MatchTerms("kyc_status"))
	assert.Empty(t, k.PIIKeywords())
}

func TestMatchTerms(t *testing.T) {
	path := writeTerms(t, `
terms:
  kyc: "Know Your Customer verification status"
  apr: "Annual percentage rate applied to the product"
  balance: "Current monetary balance of the account"
pii_keywords:
  - national_id
  - iban
`)
	k := Load(path, zap.NewNop())

	t.Run("case insensitive containment", func(t *testing.T) {
		matches := k.MatchTerms("KYC_Verification_Dt")
		assert.Equal(t, map[string]string{"kyc": "Know Your Customer verification status"}, matches)
	})

	t.Run("all containing terms returned", func(t *testing.T) {
		matches := k.MatchTerms("apr_balance_history")
		assert.Len(t, matches, 2)
		assert.Contains(t, matches, "apr")
		assert.Contains(t, matches, "balance")
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, k.MatchTerms("created_by"))
	})

	t.Run("pii keywords exposed", func(t *testing.T) {
		assert.Equal(t, []string{"national_id", "iban"}, k.PIIKeywords())
	})
}
