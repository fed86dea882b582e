package template

import (
	"encoding/json"
	"fmt"
)

// 组件类型
const (
	ComponentText  = "text"
	ComponentTable = "table"
	ComponentInput = "input"
)

// Component 模板内容组件，Data按Type取用不同字段
type Component struct {
	Type string         `json:"type"`
	Data *ComponentData `json:"data"`
}

// ComponentData 组件定义
// text用Content，table用Rows/Cols，input用Label/Placeholder
type ComponentData struct {
	Content     string `json:"content"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
}

// Content 模板内容，设计器产出的组件序列
type Content struct {
	Components []Component `json:"components"`
}

// ParseContent 解析模板内容，空串返回空组件列表
func ParseContent(s string) (*Content, error) {
	c := &Content{}
	if s == "" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(s), c); err != nil {
		return nil, fmt.Errorf("invalid template content: %w", err)
	}
	return c, nil
}
