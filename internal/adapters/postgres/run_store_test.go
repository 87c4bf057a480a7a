package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRunStoreAdapterRequiresPool(t *testing.T) {
	_, err := NewRunStoreAdapter(nil)
	assert.Error(t, err)
}

func TestClassifyLine(t *testing.T) {
	assert.Equal(t, "info", classifyLine("✅ [3/120] Uploaded TP-42 (created)"))
	assert.Equal(t, "error", classifyLine("❌ [4/120] Upload failed for TP-43"))
	assert.Equal(t, "warn", classifyLine("⚠️ [5/120] Skipped: invalid_price"))
	assert.Equal(t, "info", classifyLine("run finished"))
}
