package services

import (
	"encoding/json"
	"os"

	"github.com/zhgao/banking-metadata-description-ai/pkg/apperrors"
)

// DemoSample is one entry in the demo samples resource. Payload is a
// ready-to-send generate request, kept raw so the resource round-trips
// untouched.
type DemoSample struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Payload     json.RawMessage `json:"payload"`
}

// SampleInfo is the listing view of a demo sample.
type SampleInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SampleStore serves demo generate-request payloads from a static JSON
// resource. The resource is re-read per call; it is tiny and editable at
// runtime during demos.
type SampleStore struct {
	path string
}

// NewSampleStore creates a store reading from the given path.
func NewSampleStore(path string) *SampleStore {
	return &SampleStore{path: path}
}

func (s *SampleStore) load() []DemoSample {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var samples []DemoSample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil
	}
	return samples
}

// List returns name and description for every configured sample. A missing
// or malformed resource yields an empty list.
func (s *SampleStore) List() []SampleInfo {
	samples := s.load()
	infos := make([]SampleInfo, 0, len(samples))
	for _, sample := range samples {
		infos = append(infos, SampleInfo{Name: sample.Name, Description: sample.Description})
	}
	return infos
}

// Get returns the payload of the named sample. An empty name returns the
// first sample.
func (s *SampleStore) Get(name string) (json.RawMessage, error) {
	samples := s.load()
	if len(samples) == 0 {
		return nil, apperrors.ErrNoSamplesConfigured
	}
	if name == "" {
		return samples[0].Payload, nil
	}
	for _, sample := range samples {
		if sample.Name == name {
			return sample.Payload, nil
		}
	}
	return nil, apperrors.ErrSampleNotFound
}
