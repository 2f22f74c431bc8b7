package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Product struct {
		ID    int     `json:"id"`
		Price float64 `json:"price"`
	} `json:"product"`
	Amount int `json:"amount"`
}

func TestDecode_FirestoreShapedFields(t *testing.T) {
	doc := Document{
		ID: "h1",
		Fields: map[string]any{
			"username": "alice1",
			"items": []any{
				map[string]any{"product": map[string]any{"id": int64(1), "price": 2.0}, "amount": int64(5)},
			},
		},
	}

	var got struct {
		Username string `json:"username"`
		Items    []item `json:"items"`
	}
	require.NoError(t, Decode(doc, &got))
	assert.Equal(t, "alice1", got.Username)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 1, got.Items[0].Product.ID)
	assert.Equal(t, 5, got.Items[0].Amount)
}

func TestDecode_TypeMismatch(t *testing.T) {
	doc := Document{ID: "h2", Fields: map[string]any{"amount": "many"}}
	var got item
	err := Decode(doc, &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "h2")
}

func TestSameValue(t *testing.T) {
	assert.True(t, SameValue(float64(1), 1))
	assert.True(t, SameValue(int64(1), 1))
	assert.True(t, SameValue("alice1", "alice1"))
	assert.False(t, SameValue("1", 1))
	assert.False(t, SameValue(nil, "x"))
	assert.False(t, SameValue(func() {}, 1))
}
