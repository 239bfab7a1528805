package gears_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/lensflow/internal/importer/gears"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

func TestParser_English(t *testing.T) {
	csv := `My Gears export
Type,Name,Quantity,Brand,Condition,Value
Camera,Camera A7IV Body,1,Sony,Good,8500
Battery,NP-FZ100 Sony Battery,2,Sony,Good,
Battery,NP-FZ100 Sony Battery,1,-,messing,
,,,,,
Storage,Lexar Pro SD CARD 256 GB,,Lexar,Arriving soon,
`

	items, err := gears.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "Camera A7IV Body", items[0].Name)
	assert.Equal(t, "Camera", items[0].Category)
	assert.Equal(t, "Sony", items[0].Brand)
	assert.True(t, decimal.NewFromInt(8500).Equal(items[0].Value))

	assert.Equal(t, 2, items[1].Quantity)

	assert.Equal(t, "", items[2].Brand)
	assert.Equal(t, model.ConditionMissing, items[2].Condition)

	assert.Equal(t, 1, items[3].Quantity)
	assert.Equal(t, model.ConditionArrivingSoon, items[3].Condition)
}

func TestParser_ArabicSemicolonUTF16(t *testing.T) {
	csv := "النوع;الاسم;الكمية;الماركة;الحالة\nإضاءة;Godox SL60D;٢;Godox;جيد\nعدسات;Sigma 35mm;1;Sigma;مرتجع\n"

	input, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(csv))
	require.NoError(t, err)

	items, err := gears.NewParser().Parse(bytes.NewReader(input))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "إضاءة", items[0].Category)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, model.ConditionGood, items[0].Condition)
	assert.Equal(t, model.ConditionReturned, items[1].Condition)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{name: "NoHeader", csv: "a,b,c\n1,2,3\n"},
		{name: "BadQuantity", csv: "Type,Name,Quantity\nLens,50mm,many\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gears.NewParser().Parse(strings.NewReader(tt.csv))
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestParser_Seed(t *testing.T) {
	items, err := gears.NewParser().Seed()
	require.NoError(t, err)
	require.NotEmpty(t, items)

	assert.Equal(t, "Camera A7IV Body", items[0].Name)

	for _, it := range items {
		assert.NotEmpty(t, it.Name)
		assert.Positive(t, it.Quantity)
	}
}
