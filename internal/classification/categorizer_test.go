package classification

import (
	"testing"

	"github.com/Veraticus/trendscout/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want model.Category
	}{
		{name: "Stainless Steel Dog Leash", want: model.CategoryPet},
		{name: "Ceramic Coffee Mug", want: model.CategoryKitchen},
		{name: "Wireless Mouse", want: model.CategoryOther},
		{name: "LED Desk Lamp", want: model.CategoryHomeGarden},
		{name: "Non-Slip YOGA Mat", want: model.CategoryFitness},
		{name: "Silicone Baby Spoon Set", want: model.CategoryBaby},
		{name: "Raised Garden Bed", want: model.CategoryHomeGarden},
		{name: "", want: model.CategoryOther},
		// pet rules are checked before kitchen
		{name: "Slow Feeder Dog Bowl", want: model.CategoryPet},
		// kitchen rules are checked before home
		{name: "Home Cooking Thermometer", want: model.CategoryKitchen},
		// fitness rules are checked before baby
		{name: "Baby Gym Play Mat", want: model.CategoryFitness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.name))
		})
	}
}

func TestCategorizer_Apply(t *testing.T) {
	c, err := NewCategorizer(DefaultRules())
	require.NoError(t, err)

	in := model.ProductRecord{Name: "Cat Scratching Post"}
	out := c.Apply(in)
	assert.Equal(t, model.CategoryPet, out.Category)
	assert.Empty(t, in.Category)
}

func TestNewCategorizer_Validation(t *testing.T) {
	_, err := NewCategorizer([]Rule{{Keywords: []string{"x"}}})
	require.Error(t, err)

	_, err = NewCategorizer([]Rule{{Category: model.CategoryKitchen, Keywords: []string{" ", ""}}})
	require.Error(t, err)

	c, err := NewCategorizer([]Rule{{Category: model.CategoryKitchen, Keywords: []string{"  SPATULA "}}})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryKitchen, c.Categorize("silicone spatula"))
}
