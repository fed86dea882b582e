package menu

import (
	"testing"

	"github.com/laoming/experiment-manage-system/internal/model"
	"github.com/laoming/experiment-manage-system/pkg/dal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func m(id, parentID uint, name string, sortNo int) *model.Menu {
	return &model.Menu{
		Model:    dal.Model{ID: id},
		ParentID: parentID,
		Name:     name,
		Sort:     sortNo,
	}
}

func TestBuildTree(t *testing.T) {
	menus := []*model.Menu{
		m(1, 0, "系统管理", 1),
		m(2, 1, "用户管理", 2),
		m(3, 1, "角色管理", 1),
		m(4, 0, "课程管理", 2),
		m(5, 2, "用户新增", 1),
	}

	tree := BuildTree(menus)
	require.Len(t, tree, 2)

	assert.Equal(t, "系统管理", tree[0].Name)
	assert.Equal(t, "课程管理", tree[1].Name)

	// 子节点按Sort排序
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "角色管理", tree[0].Children[0].Name)
	assert.Equal(t, "用户管理", tree[0].Children[1].Name)

	// 三级嵌套
	require.Len(t, tree[0].Children[1].Children, 1)
	assert.Equal(t, "用户新增", tree[0].Children[1].Children[0].Name)
}

func TestBuildTreeOrphanBecomesRoot(t *testing.T) {
	// 父节点不存在的菜单提升为根节点
	menus := []*model.Menu{
		m(2, 99, "孤儿菜单", 1),
		m(1, 0, "正常菜单", 2),
	}

	tree := BuildTree(menus)
	require.Len(t, tree, 2)
	assert.Equal(t, "孤儿菜单", tree[0].Name)
}

func TestBuildTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildTree(nil))
}
