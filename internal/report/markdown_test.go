package report

import (
	"testing"
	"time"

	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportMarkdown(t *testing.T) {
	submitted := time.Date(2026, 3, 1, 10, 30, 0, 0, time.Local)
	score := 92.5

	rep := &model.ExperimentReport{
		Title: "示波器使用实验",
		Content: `{
			"components": [
				{"type":"text","data":{"content":"掌握示波器的基本使用方法。"}},
				{"type":"input","data":{"label":"实验结论","placeholder":"请填写结论"}}
			],
			"inputData": {"1":{"value":"波形正常"}}
		}`,
		Status:      model.ReportStatusGraded,
		Score:       &score,
		Comment:     "完成得很好",
		SubmittedAt: &submitted,
		Template:    &model.ExperimentTemplate{Name: "示波器实验"},
		User:        &model.User{Username: "alice", DisplayName: "爱丽丝"},
	}

	md, err := ExportMarkdown(rep)
	require.NoError(t, err)

	assert.Contains(t, md, "# 示波器使用实验")
	assert.Contains(t, md, "- 姓名：爱丽丝")
	assert.Contains(t, md, "- 实验：示波器实验")
	assert.Contains(t, md, "- 状态：已批改")
	assert.Contains(t, md, "- 成绩：92.5")
	assert.Contains(t, md, "- 评语：完成得很好")
	assert.Contains(t, md, "掌握示波器的基本使用方法。\n\n")
	assert.Contains(t, md, "### 实验结论\n\n波形正常\n\n")
	// 已填写的组件不输出占位符
	assert.NotContains(t, md, "*请填写结论*")
}

func TestExportMarkdownInputPlaceholder(t *testing.T) {
	rep := &model.ExperimentReport{
		Title: "报告",
		Content: `{
			"components": [
				{"type":"input","data":{"label":"实验结论","placeholder":"请填写结论"}},
				{"type":"input","data":{"label":"思考题"}}
			]
		}`,
	}

	md, err := ExportMarkdown(rep)
	require.NoError(t, err)

	// 无inputData时输出斜体占位符，缺省占位符为"待填写"
	assert.Contains(t, md, "### 实验结论\n\n*请填写结论*\n\n")
	assert.Contains(t, md, "### 思考题\n\n*待填写*\n\n")
}

func TestExportMarkdownTableWithCells(t *testing.T) {
	rep := &model.ExperimentReport{
		Title: "报告",
		Content: `{
			"components": [{"type":"table","data":{"rows":2,"cols":2}}],
			"inputData": {"0":{"cell_0_0":"电压","cell_0_1":"5V","cell_1_0":"电流"}}
		}`,
	}

	md, err := ExportMarkdown(rep)
	require.NoError(t, err)

	assert.Contains(t, md, "|   |   |\n|---|---|\n")
	assert.Contains(t, md, "| 电压 | 5V |\n")
	// 缺失的单元格留空
	assert.Contains(t, md, "| 电流 |  |\n")
}

func TestExportMarkdownTableScaffold(t *testing.T) {
	rep := &model.ExperimentReport{
		Title:   "报告",
		Content: `{"components":[{"type":"table","data":{"rows":1,"cols":3}}]}`,
	}

	md, err := ExportMarkdown(rep)
	require.NoError(t, err)

	// 无数据时输出空白表格
	assert.Contains(t, md, "|   |   |   |\n|---|---|---|\n|   |   |   |\n")
}

func TestExportMarkdownSkipsEmptyComponents(t *testing.T) {
	rep := &model.ExperimentReport{
		Title: "报告",
		Content: `{
			"components": [
				{"type":"text","data":{"content":""}},
				{"type":"table","data":{"rows":0,"cols":2}},
				{"type":"unknown","data":{"content":"忽略"}},
				{"type":"text"}
			]
		}`,
	}

	md, err := ExportMarkdown(rep)
	require.NoError(t, err)
	assert.NotContains(t, md, "|")
	assert.NotContains(t, md, "忽略")
}

func TestExportMarkdownTitleFallback(t *testing.T) {
	rep := &model.ExperimentReport{
		Status:   model.ReportStatusDraft,
		Template: &model.ExperimentTemplate{Name: "电路实验"},
	}

	md, err := ExportMarkdown(rep)
	require.NoError(t, err)
	assert.Contains(t, md, "# 电路实验")
	assert.Contains(t, md, "- 状态：草稿")
	// 未批改时不输出成绩
	assert.NotContains(t, md, "成绩")
}

func TestExportMarkdownDisplayNameFallback(t *testing.T) {
	rep := &model.ExperimentReport{
		Title:  "报告",
		Status: model.ReportStatusSubmitted,
		User:   &model.User{Username: "bob"},
	}

	md, err := ExportMarkdown(rep)
	require.NoError(t, err)
	assert.Contains(t, md, "- 姓名：bob")
}

func TestExportMarkdownInvalidContent(t *testing.T) {
	rep := &model.ExperimentReport{
		Title:   "报告",
		Content: "not json",
	}

	_, err := ExportMarkdown(rep)
	assert.Error(t, err)
}

func TestStatusName(t *testing.T) {
	assert.Equal(t, "未开始", StatusName(model.ReportStatusPending))
	assert.Equal(t, "草稿", StatusName(model.ReportStatusDraft))
	assert.Equal(t, "已提交", StatusName(model.ReportStatusSubmitted))
	assert.Equal(t, "已批改", StatusName(model.ReportStatusGraded))
	assert.Equal(t, "未知", StatusName(99))
}
