package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-ledger-import-service/internal/models"
)

func testCatalog() []models.Category {
	return []models.Category{
		{ID: "food", Name: "食費", Keywords: []string{"コンビニ", "スーパー", "マクドナルド"}},
		{ID: "transport", Name: "交通費", Keywords: []string{"JR", "タクシー", "スーパー"}},
		{ID: "subscription", Name: "サブスク", Keywords: []string{"netflix", "spotify"}},
		{ID: "other", Name: "その他", Keywords: nil},
	}
}

func TestEngineMatch(t *testing.T) {
	engine := NewEngine(testCatalog())

	tests := []struct {
		name        string
		description string
		wantID      string
		wantOK      bool
	}{
		{"keyword substring", "コンビニA 駅前店", "food", true},
		{"later category keyword", "JR東日本 モバイルSuica", "transport", true},
		{"ascii keyword is case insensitive", "NETFLIX.COM", "subscription", true},
		{"shared keyword goes to earliest category", "スーパーB", "food", true},
		{"no keyword", "山田太郎", "", false},
		{"empty description", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := engine.Match(tt.description)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestEngineMatch_CatalogOrderWins(t *testing.T) {
	// Both keywords appear; the category listed first in the catalog wins
	// regardless of where its keyword sits in the description.
	engine := NewEngine(testCatalog())

	id, ok := engine.Match("タクシーでマクドナルドへ")
	require.True(t, ok)
	assert.Equal(t, "food", id)
}

func TestEngineMatch_EmptyCatalog(t *testing.T) {
	engine := NewEngine(nil)

	id, ok := engine.Match("コンビニA")
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestApply(t *testing.T) {
	transactions := []*models.Transaction{
		{ID: "1", Description: "コンビニA", CategoryID: models.CategoryOther},
		{ID: "2", Description: "コンビニA", CategoryID: "utilities", AutoCategoryReason: "自動判定: 光熱費"},
		{ID: "3", Description: "山田太郎", CategoryID: models.CategoryOther},
	}

	got := Apply(transactions, testCatalog())
	require.Len(t, got, 3)

	assert.Equal(t, "food", got[0].CategoryID, "unresolved transaction should be categorized")
	assert.Equal(t, "utilities", got[1].CategoryID, "resolved transaction must not be overridden")
	assert.Equal(t, models.CategoryOther, got[2].CategoryID, "unmatched transaction keeps the sentinel")
}

func TestApply_DefaultCatalog(t *testing.T) {
	transactions := []*models.Transaction{
		{ID: "1", Description: "スーパーマルエツ 新宿店", CategoryID: models.CategoryOther},
		{ID: "2", Description: "東京電力", CategoryID: models.CategoryOther},
	}

	Apply(transactions, models.DefaultCatalog())

	assert.Equal(t, "food", transactions[0].CategoryID)
	assert.Equal(t, "utilities", transactions[1].CategoryID)
}
