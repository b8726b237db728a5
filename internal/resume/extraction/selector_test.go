package extraction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/internal/resume/extraction"
	"github.com/talentflow/talentflow-backend/pkg/config"
)

func selectorConfig() *config.ExtractionConfig {
	return &config.ExtractionConfig{
		PreferredMethod: "auto",
		SmallDocBytes:   256 * 1024,
		LargeDocBytes:   4 * 1024 * 1024,
	}
}

func fullRegistry() *extraction.Registry {
	return extraction.NewRegistry(
		extraction.NewPDFEngine(),
		extraction.NewRelaxedPDFEngine(),
		extraction.NewStreamEngine(),
		extraction.NewPlainTextEngine(),
		extraction.NewOCREngine("http://recognition.local", 1),
	)
}

func pdfDoc(size int64) *domain.Document {
	return &domain.Document{Data: []byte("%PDF-1.7 stub"), ByteSize: size}
}

func TestSelectSizeBoundaries(t *testing.T) {
	caps := fullRegistry().Capabilities()
	cfg := selectorConfig()

	tests := []struct {
		name string
		size int64
		want domain.EngineID
	}{
		{"tiny document", 1024, domain.EngineStream},
		{"just under small boundary", 256*1024 - 1, domain.EngineStream},
		{"at small boundary", 256 * 1024, domain.EnginePDFCPU},
		{"medium document", 1024 * 1024, domain.EnginePDFCPU},
		{"just under large boundary", 4*1024*1024 - 1, domain.EnginePDFCPU},
		{"at large boundary", 4 * 1024 * 1024, domain.EnginePDFCPURelaxed},
		{"huge document", 64 * 1024 * 1024, domain.EnginePDFCPURelaxed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extraction.Select(pdfDoc(tt.size), cfg, caps)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectNonPDF(t *testing.T) {
	caps := fullRegistry().Capabilities()
	doc := &domain.Document{Data: []byte("plain resume text"), ByteSize: 17}

	got, err := extraction.Select(doc, selectorConfig(), caps)
	require.NoError(t, err)
	assert.Equal(t, domain.EnginePlainText, got)
}

func TestSelectExplicitMethod(t *testing.T) {
	caps := fullRegistry().Capabilities()
	cfg := selectorConfig()
	cfg.PreferredMethod = "ocr"

	got, err := extraction.Select(pdfDoc(1024), cfg, caps)
	require.NoError(t, err)
	assert.Equal(t, domain.EngineOCR, got)
}

func TestSelectExplicitMethodUnavailable(t *testing.T) {
	// Recognition engine without a service URL reports unavailable.
	registry := extraction.NewRegistry(
		extraction.NewStreamEngine(),
		extraction.NewOCREngine("", 1),
	)
	cfg := selectorConfig()
	cfg.PreferredMethod = "ocr"

	_, err := extraction.Select(pdfDoc(1024), cfg, registry.Capabilities())
	assert.ErrorIs(t, err, domain.ErrNoEngines)
}

func TestSelectNoDirectEnginesUsesRecognition(t *testing.T) {
	registry := extraction.NewRegistry(
		extraction.NewPlainTextEngine(),
		extraction.NewOCREngine("http://recognition.local", 1),
	)

	got, err := extraction.Select(pdfDoc(1024), selectorConfig(), registry.Capabilities())
	require.NoError(t, err)
	assert.Equal(t, domain.EngineOCR, got)
}

func TestSelectPreferredDirectMissingFallsBackByFidelity(t *testing.T) {
	// No stream engine: a small PDF falls back to the best direct engine.
	registry := extraction.NewRegistry(
		extraction.NewPDFEngine(),
		extraction.NewRelaxedPDFEngine(),
	)

	got, err := extraction.Select(pdfDoc(1024), selectorConfig(), registry.Capabilities())
	require.NoError(t, err)
	assert.Equal(t, domain.EnginePDFCPU, got)
}
