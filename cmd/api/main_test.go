package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/analytics"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/repository"
)

func TestRootCommand_Tree(t *testing.T) {
	root := newRootCommand()

	for _, path := range [][]string{
		{"serve"},
		{"seed"},
		{"report", "best-sellers"},
		{"report", "category-ratings"},
		{"report", "order-history"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	assert.NotNil(t, root.PersistentFlags().Lookup("env-file"))
}

func TestOrderHistory_RequiresUserArg(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"report", "order-history"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	assert.Error(t, root.Execute())
}

func TestNewEngine(t *testing.T) {
	native := repository.NewAnalyticsRepository(nil, nil, nil, nil)

	for _, kind := range []string{config.EngineNative, config.EnginePipeline} {
		engine := newEngine(kind, native, logger.NewNop())
		assert.IsType(t, &analytics.Instrumented{}, engine, kind)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, []models.CategoryRating{{CategoryName: "Ropa", AverageRating: 4, TotalReviews: 1}}))
	assert.Contains(t, buf.String(), `"categoryName": "Ropa"`)
}
