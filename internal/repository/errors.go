package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 存储层哨兵错误；上层据此映射业务错误，不透出 gorm 细节
var (
	ErrDuplicate = errors.New("duplicate record")
	ErrNotFound  = errors.New("record not found")
)

// translate 将 gorm 错误归一到哨兵错误。
// 依赖 gorm.Config{TranslateError: true} 把各驱动的唯一约束冲突
// 统一成 gorm.ErrDuplicatedKey —— 唯一约束是并发正确性的唯一依据。
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}
