package util

import (
	"blog-backend/internal/model"

	"github.com/go-playground/validator/v10"
)

// ValidatePostCategory 验证帖子分类是否在枚举内
func ValidatePostCategory(fl validator.FieldLevel) bool {
	category, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if category == "" {
		return true // 为空时使用默认分类
	}
	for _, c := range model.PostCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidateTrendingPeriod 验证趋势时间窗口参数
func ValidateTrendingPeriod(fl validator.FieldLevel) bool {
	period, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return IsValidTrendingPeriod(period)
}

// IsValidTrendingPeriod 空值按默认窗口处理
func IsValidTrendingPeriod(period string) bool {
	switch period {
	case "", "day", "week", "month":
		return true
	}
	return false
}
