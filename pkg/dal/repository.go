package dal

import (
	"context"

	"gorm.io/gorm"
)

// QueryOption 查询选项，用于附加预加载、排序等条件
type QueryOption func(*gorm.DB) *gorm.DB

// WithPreload 预加载关联
func WithPreload(relations ...string) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		for _, relation := range relations {
			db = db.Preload(relation)
		}
		return db
	}
}

// WithOrder 指定排序
func WithOrder(order string) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	}
}

// WithSelect 指定查询字段
func WithSelect(fields ...string) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Select(fields)
	}
}

// Repository 通用仓储接口
type Repository[T any] interface {
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint, opts ...QueryOption) (*T, error)
	FindOne(ctx context.Context, conditions map[string]interface{}, opts ...QueryOption) (*T, error)
	Find(ctx context.Context, conditions map[string]interface{}, opts ...QueryOption) ([]*T, error)
	FindPaged(ctx context.Context, conditions map[string]interface{}, pagination *Pagination, opts ...QueryOption) (*PagedResult[T], error)
	Count(ctx context.Context, conditions map[string]interface{}) (int64, error)
	Exists(ctx context.Context, conditions map[string]interface{}) (bool, error)
}

// BaseRepository 基于GORM的通用仓储实现
type BaseRepository[T any] struct {
	db *gorm.DB
}

// NewBaseRepository 创建仓储实例
func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: db}
}

// DB 获取数据库句柄，供复杂查询使用
func (r *BaseRepository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create 创建实体
func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// Update 保存实体全部字段
func (r *BaseRepository[T]) Update(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

// UpdateFields 更新指定字段
func (r *BaseRepository[T]) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	var entity T
	return r.db.WithContext(ctx).Model(&entity).Where("id = ?", id).Updates(fields).Error
}

// Delete 物理删除实体
func (r *BaseRepository[T]) Delete(ctx context.Context, id uint) error {
	var entity T
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity).Error
}

// FindByID 按主键查询，未找到返回 (nil, nil)
func (r *BaseRepository[T]) FindByID(ctx context.Context, id uint, opts ...QueryOption) (*T, error) {
	db := r.db.WithContext(ctx)
	for _, opt := range opts {
		db = opt(db)
	}

	var entity T
	if err := db.Where("id = ?", id).First(&entity).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// FindOne 按条件查询单条记录，未找到返回 (nil, nil)
func (r *BaseRepository[T]) FindOne(ctx context.Context, conditions map[string]interface{}, opts ...QueryOption) (*T, error) {
	db := r.db.WithContext(ctx)
	for _, opt := range opts {
		db = opt(db)
	}

	var entity T
	if err := db.Where(conditions).First(&entity).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// Find 按条件查询列表
func (r *BaseRepository[T]) Find(ctx context.Context, conditions map[string]interface{}, opts ...QueryOption) ([]*T, error) {
	db := r.db.WithContext(ctx)
	for _, opt := range opts {
		db = opt(db)
	}

	var entities []*T
	if len(conditions) > 0 {
		db = db.Where(conditions)
	}
	if err := db.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// FindPaged 分页查询
func (r *BaseRepository[T]) FindPaged(ctx context.Context, conditions map[string]interface{}, pagination *Pagination, opts ...QueryOption) (*PagedResult[T], error) {
	var entity T
	db := r.db.WithContext(ctx).Model(&entity)
	if len(conditions) > 0 {
		db = db.Where(conditions)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	for _, opt := range opts {
		db = opt(db)
	}

	var entities []*T
	if err := db.Offset(pagination.Offset()).Limit(pagination.PageSize).Find(&entities).Error; err != nil {
		return nil, err
	}
	return NewPagedResult(entities, total, pagination), nil
}

// FindPagedWithQuery 基于外部构造的查询分页
func (r *BaseRepository[T]) FindPagedWithQuery(ctx context.Context, query *gorm.DB, pagination *Pagination) (*PagedResult[T], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var entities []*T
	if err := query.Offset(pagination.Offset()).Limit(pagination.PageSize).Find(&entities).Error; err != nil {
		return nil, err
	}
	return NewPagedResult(entities, total, pagination), nil
}

// Count 统计条数
func (r *BaseRepository[T]) Count(ctx context.Context, conditions map[string]interface{}) (int64, error) {
	var entity T
	var total int64
	db := r.db.WithContext(ctx).Model(&entity)
	if len(conditions) > 0 {
		db = db.Where(conditions)
	}
	if err := db.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Exists 判断是否存在
func (r *BaseRepository[T]) Exists(ctx context.Context, conditions map[string]interface{}) (bool, error) {
	total, err := r.Count(ctx, conditions)
	if err != nil {
		return false, err
	}
	return total > 0, nil
}
