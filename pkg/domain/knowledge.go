// Package domain loads the static banking term glossary and PII keyword
// list used to ground rule-based generation.
package domain

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// termsFile mirrors the structure of data/banking_terms.yaml.
type termsFile struct {
	Terms       map[string]string `yaml:"terms"`
	PIIKeywords []string          `yaml:"pii_keywords"`
}

// Knowledge holds the term glossary and PII keyword list, loaded once at
// startup. Read-only after construction and safe for concurrent use.
type Knowledge struct {
	terms       map[string]string
	piiKeywords []string
}

// Load reads the banking terms resource from path. A missing or unreadable
// resource degrades to empty term and keyword sets rather than failing;
// generation must keep working without domain configuration.
func Load(path string, logger *zap.Logger) *Knowledge {
	k := &Knowledge{terms: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Banking terms resource not found, using empty domain knowledge",
			zap.String("path", path),
			zap.Error(err))
		return k
	}

	var parsed termsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		logger.Warn("Banking terms resource is malformed, using empty domain knowledge",
			zap.String("path", path),
			zap.Error(err))
		return k
	}

	if parsed.Terms != nil {
		k.terms = parsed.Terms
	}
	k.piiKeywords = parsed.PIIKeywords

	logger.Info("Loaded banking domain knowledge",
		zap.String("path", path),
		zap.Int("terms", len(k.terms)),
		zap.Int("pii_keywords", len(k.piiKeywords)))
	return k
}

// MatchTerms returns every known term contained in text, case-insensitively,
// mapped to its business meaning. All containing terms are returned; there
// is no shortest-match precedence.
func (k *Knowledge) MatchTerms(text string) map[string]string {
	source := strings.ToLower(text)
	matches := map[string]string{}
	for term, meaning := range k.terms {
		if strings.Contains(source, strings.ToLower(term)) {
			matches[term] = meaning
		}
	}
	return matches
}

// PIIKeywords returns the configured PII keyword list. May be empty.
func (k *Knowledge) PIIKeywords() []string {
	return k.piiKeywords
}
