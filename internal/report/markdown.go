package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/internal/template"
)

// ReportContent 报告内容
// Components为模板设计器产出的组件序列，InputData按组件下标存放学生填写的数据：
// input组件为{"value": ...}，table组件为{"cell_行_列": ...}
type ReportContent struct {
	Components []template.Component         `json:"components"`
	InputData  map[string]map[string]string `json:"inputData"`
}

// ExportMarkdown 将实验报告导出为Markdown文档
// 逐组件渲染：text输出正文段落，table输出表格（无数据时留空白表格），
// input输出标签与填写内容，未填写时以斜体占位符提示
func ExportMarkdown(rep *model.ExperimentReport) (string, error) {
	var b strings.Builder

	title := rep.Title
	if title == "" && rep.Template != nil {
		title = rep.Template.Name
	}
	if title == "" {
		title = "实验报告"
	}

	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n")

	if rep.User != nil {
		fmt.Fprintf(&b, "- 姓名：%s\n", displayName(rep.User))
	}
	if rep.Template != nil {
		fmt.Fprintf(&b, "- 实验：%s\n", rep.Template.Name)
	}
	fmt.Fprintf(&b, "- 状态：%s\n", StatusName(rep.Status))
	if rep.SubmittedAt != nil {
		fmt.Fprintf(&b, "- 提交时间：%s\n", rep.SubmittedAt.Format(time.DateTime))
	}
	if rep.Status == model.ReportStatusGraded && rep.Score != nil {
		fmt.Fprintf(&b, "- 成绩：%.1f\n", *rep.Score)
		if rep.Comment != "" {
			fmt.Fprintf(&b, "- 评语：%s\n", rep.Comment)
		}
	}
	b.WriteString("\n")

	content, err := parseContent(rep.Content)
	if err != nil {
		return "", err
	}

	for i, comp := range content.Components {
		if comp.Data == nil {
			continue
		}
		switch comp.Type {
		case template.ComponentText:
			if comp.Data.Content != "" {
				b.WriteString(comp.Data.Content)
				b.WriteString("\n\n")
			}
		case template.ComponentTable:
			writeTable(&b, comp.Data, content.InputData[strconv.Itoa(i)])
		case template.ComponentInput:
			writeInput(&b, comp.Data, content.InputData, i)
		}
	}

	return b.String(), nil
}

// parseContent 解析报告内容，空串返回空结构
func parseContent(content string) (*ReportContent, error) {
	rc := &ReportContent{}
	if content == "" {
		return rc, nil
	}
	if err := json.Unmarshal([]byte(content), rc); err != nil {
		return nil, fmt.Errorf("invalid report content: %w", err)
	}
	return rc, nil
}

// writeTable 渲染表格组件
// 有数据时按cell_行_列逐格填入，缺失的格留空；整块数据缺失时输出空白表格
func writeTable(b *strings.Builder, data *template.ComponentData, cells map[string]string) {
	if data.Rows <= 0 || data.Cols <= 0 {
		return
	}

	b.WriteString("|")
	for c := 0; c < data.Cols; c++ {
		b.WriteString("   |")
	}
	b.WriteString("\n|")
	for c := 0; c < data.Cols; c++ {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for r := 0; r < data.Rows; r++ {
		b.WriteString("|")
		for c := 0; c < data.Cols; c++ {
			if cells == nil {
				b.WriteString("   |")
				continue
			}
			fmt.Fprintf(b, " %s |", cells[fmt.Sprintf("cell_%d_%d", r, c)])
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// writeInput 渲染填空组件
func writeInput(b *strings.Builder, data *template.ComponentData, inputData map[string]map[string]string, index int) {
	if data.Label != "" {
		b.WriteString("### ")
		b.WriteString(data.Label)
		b.WriteString("\n\n")
	}

	if values, ok := inputData[strconv.Itoa(index)]; ok {
		if v := values["value"]; v != "" {
			b.WriteString(v)
			b.WriteString("\n\n")
		}
		return
	}

	placeholder := data.Placeholder
	if placeholder == "" {
		placeholder = "待填写"
	}
	fmt.Fprintf(b, "*%s*\n\n", placeholder)
}

// StatusName 报告状态名称
func StatusName(status int8) string {
	switch status {
	case model.ReportStatusPending:
		return "未开始"
	case model.ReportStatusDraft:
		return "草稿"
	case model.ReportStatusSubmitted:
		return "已提交"
	case model.ReportStatusGraded:
		return "已批改"
	default:
		return "未知"
	}
}

// displayName 优先显示姓名，缺省回退到用户名
func displayName(u *model.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
