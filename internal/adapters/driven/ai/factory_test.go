package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/domain"
)

func TestCreateEmbeddingService_Cohere(t *testing.T) {
	svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderCohere,
		APIKey:   "key",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	defer svc.Close()
	assert.Equal(t, "embed-multilingual-v3.0", svc.ModelName())
}

func TestCreateEmbeddingService_OpenAI(t *testing.T) {
	svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "key",
		Model:    "text-embedding-3-small",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	defer svc.Close()
	assert.Equal(t, 1536, svc.Dimensions())
}

func TestCreateEmbeddingService_MissingKey(t *testing.T) {
	_, err := CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderCohere,
	})

	assert.Error(t, err)
}

func TestCreateEmbeddingService_UnsupportedProvider(t *testing.T) {
	_, err := CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider: "chroma",
		APIKey:   "key",
	})

	assert.Error(t, err)
}

func TestCreateLLMService_Cohere(t *testing.T) {
	svc, err := CreateLLMService(&domain.LLMSettings{
		Provider: domain.AIProviderCohere,
		APIKey:   "key",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	defer svc.Close()
	assert.Equal(t, "command-r-plus-08-2024", svc.ModelName())
}

func TestCreateLLMService_UnsupportedProvider(t *testing.T) {
	_, err := CreateLLMService(&domain.LLMSettings{
		Provider: "llama.cpp",
		APIKey:   "key",
	})

	assert.Error(t, err)
}

func TestCreateAndValidate_Unconfigured(t *testing.T) {
	svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{})
	require.NoError(t, err)
	assert.Nil(t, svc)

	llm, err := CreateAndValidateLLMService(nil)
	require.NoError(t, err)
	assert.Nil(t, llm)
}
