package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomItemDecodesBothShapes(t *testing.T) {
	raw := `["Old Relic", {"name":"Aegis","effect":"shield","uses":"1","cooldown":3,"custom":true}]`

	var items []CustomItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	require.Len(t, items, 2)

	assert.False(t, items[0].IsMinted())
	assert.Equal(t, "Old Relic", items[0].Name)
	assert.True(t, items[1].IsMinted())
	assert.Equal(t, MintedItem("Aegis", "shield", 1, 3), items[1])

	out, err := json.Marshal(items)
	require.NoError(t, err)
	assert.JSONEq(t, `["Old Relic", {"name":"Aegis","effect":"shield","uses":1,"cooldown":3,"custom":true}]`, string(out))
}

func TestCustomItemRejectsUnknownShapes(t *testing.T) {
	var item CustomItem
	assert.Error(t, json.Unmarshal([]byte(`42`), &item))
	assert.Error(t, json.Unmarshal([]byte(`{"effect":"nameless"}`), &item))
}
