package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPDF(t *testing.T) {
	body := "Declaro para os devidos fins que Maria da Silva reside nesta cidade.\nEsta declaração é válida por noventa dias."
	footer := "Rio de Janeiro, 01 de setembro de 2026\nSecretaria Municipal de Educação"

	artifact, err := RenderPDF("DECLARAÇÃO DE RESIDÊNCIA", body, footer)

	require.NoError(t, err)
	require.NotEmpty(t, artifact)
	assert.True(t, strings.HasPrefix(string(artifact[:5]), "%PDF-"))
}

func TestRenderPDF_EmptySections(t *testing.T) {
	artifact, err := RenderPDF("", "", "")

	// An empty template still yields a valid single-page document with
	// the letterhead
	require.NoError(t, err)
	require.NotEmpty(t, artifact)
}

func TestRenderPDF_LongBodySpansPages(t *testing.T) {
	paragraph := strings.Repeat("Texto de corpo suficientemente longo para forçar quebra de página. ", 20)
	body := strings.Repeat(paragraph+"\n", 10)

	artifact, err := RenderPDF("DECLARAÇÃO", body, "rodapé")

	require.NoError(t, err)
	short, err := RenderPDF("DECLARAÇÃO", "linha única", "rodapé")
	require.NoError(t, err)
	assert.Greater(t, len(artifact), len(short))
}
