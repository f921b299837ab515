package factory

import (
	"path/filepath"
	"testing"

	"github.com/mikey/email-reconciler/internal/adapters/cache"
	"github.com/mikey/email-reconciler/internal/adapters/intake"
	"github.com/mikey/email-reconciler/internal/config"
	"github.com/mikey/email-reconciler/internal/pipeline"
	"github.com/mikey/email-reconciler/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLLMFactory(t *testing.T) {
	logger := zap.NewNop()
	tp := utils.NewTextProcessor(logger)

	v := config.NewEmptyViper()
	client, err := NewLLMFactory(config.NewFromViper(v), logger, tp).CreateLLMClient()
	require.NoError(t, err)
	assert.Nil(t, client)

	v.Set("llm.provider", "openai")
	v.Set("openai.api_key", "sk-test")
	v.Set("openai.model_name", "gpt-test")
	client, err = NewLLMFactory(config.NewFromViper(v), logger, tp).CreateLLMClient()
	require.NoError(t, err)
	require.IsType(t, &pipeline.RateLimitedClient{}, client)
	assert.Equal(t, "gpt-test", client.ModelName())

	v.Set("openai.api_key", "")
	_, err = NewLLMFactory(config.NewFromViper(v), logger, tp).CreateLLMClient()
	assert.Error(t, err)

	v.Set("llm.provider", "gemini")
	_, err = NewLLMFactory(config.NewFromViper(v), logger, tp).CreateLLMClient()
	assert.ErrorContains(t, err, "gemini API key")

	v.Set("llm.provider", "eliza")
	_, err = NewLLMFactory(config.NewFromViper(v), logger, tp).CreateLLMClient()
	assert.ErrorContains(t, err, "unsupported LLM provider")
}

func TestCacheFactory(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("cache.cleanup_frequency", "0s")
	f := NewCacheFactory(config.NewFromViper(v), zap.NewNop())

	c, err := f.CreatePatternCache()
	require.NoError(t, err)
	require.IsType(t, &cache.MemoryCache{}, c)
	c.(*cache.MemoryCache).Stop()

	v.Set("cache.type", "sqlite")
	v.Set("cache.sqlite_path", filepath.Join(t.TempDir(), "nested", "cache.db"))
	c, err = f.CreatePatternCache()
	require.NoError(t, err)
	require.IsType(t, &cache.SQLiteCache{}, c)
	c.(*cache.SQLiteCache).Stop()

	v.Set("cache.enabled", false)
	c, err = f.CreatePatternCache()
	require.NoError(t, err)
	assert.Nil(t, c)

	v.Set("cache.enabled", true)
	v.Set("cache.type", "redis")
	_, err = f.CreatePatternCache()
	assert.Error(t, err)
}

func TestStoreFactory(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("store.dsn", filepath.Join(t.TempDir(), "db", "store.db"))
	s, err := NewStoreFactory(config.NewFromViper(v), zap.NewNop()).CreateStore()
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestIntakeFactory(t *testing.T) {
	v := config.NewEmptyViper()
	f := NewIntakeFactory(config.NewFromViper(v), zap.NewNop(), nil)

	in, err := f.CreateEmailIntake()
	require.NoError(t, err)
	assert.IsType(t, &intake.SMTPIntake{}, in)

	v.Set("intake.type", "cli")
	in, err = f.CreateEmailIntake()
	require.NoError(t, err)
	assert.IsType(t, &intake.CLIIntake{}, in)

	v.Set("intake.type", "milter")
	_, err = f.CreateEmailIntake()
	assert.Error(t, err)
}
