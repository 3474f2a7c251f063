package normalizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"aujobs-pipeline/internal/models"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name        string
		display     string
		title       string
		description string
		key         string
		fromDisplay bool
	}{
		{"site label wins", "Office Support", "Registered Nurse", "", "office_support", true},
		{"punctuation in label", "Drivers & Operators", "", "", "drivers_operators", true},
		{"title keyword", "", "Registered Nurse", "", "healthcare", false},
		{"title outweighs description", "", "Senior Software Engineer", "Work closely with our hospital partners", "technology", false},
		{"description only", "", "Team Member", "You will prepare budget reports and manage payroll", "finance", false},
		{"no signal", "", "Widget Polisher", "", models.CategoryOther, false},
		{"nothing", "", "", "", models.CategoryOther, false},
		{"blank label falls through", "  ", "Primary School Teacher", "", "education", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCategory(tt.display, tt.title, tt.description)
			assert.Equal(t, tt.key, got.Key)
			assert.Equal(t, tt.fromDisplay, got.FromDisplay)
			assert.NotEmpty(t, got.Label)
		})
	}
}

func TestCategoryKey_Capped(t *testing.T) {
	key := CategoryKey(strings.Repeat("Very Long Category Name ", 10))
	assert.LessOrEqual(t, len(key), 50)
	assert.False(t, strings.HasSuffix(key, "_"))
	assert.Equal(t, models.CategoryOther, CategoryKey("!!!"))
}

func TestNormalizeCategory_LabelCapped(t *testing.T) {
	display := strings.Repeat("Community Services and Development ", 10)
	got := NormalizeCategory(display, "", "")
	assert.True(t, got.FromDisplay)
	assert.LessOrEqual(t, len([]rune(got.Label)), MaxCategoryLabel)
	assert.True(t, strings.HasPrefix(got.Label, "Community Services"))
}
