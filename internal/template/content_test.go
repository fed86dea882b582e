package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContent(t *testing.T) {
	c, err := ParseContent(`{
		"components": [
			{"type":"text","data":{"content":"实验步骤如下。"}},
			{"type":"table","data":{"rows":3,"cols":2}},
			{"type":"input","data":{"label":"结论","placeholder":"请填写"}}
		]
	}`)
	require.NoError(t, err)
	require.Len(t, c.Components, 3)

	assert.Equal(t, ComponentText, c.Components[0].Type)
	assert.Equal(t, "实验步骤如下。", c.Components[0].Data.Content)
	assert.Equal(t, ComponentTable, c.Components[1].Type)
	assert.Equal(t, 3, c.Components[1].Data.Rows)
	assert.Equal(t, 2, c.Components[1].Data.Cols)
	assert.Equal(t, ComponentInput, c.Components[2].Type)
	assert.Equal(t, "结论", c.Components[2].Data.Label)
}

func TestParseContentEmpty(t *testing.T) {
	c, err := ParseContent("")
	require.NoError(t, err)
	assert.Empty(t, c.Components)
}

func TestParseContentInvalid(t *testing.T) {
	_, err := ParseContent("not json")
	assert.Error(t, err)

	// 扁平数组不是合法的模板内容
	_, err = ParseContent(`[{"title":"目的"}]`)
	assert.Error(t, err)
}
