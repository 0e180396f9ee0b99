package service

import (
	"lms_progress_backend/internal/model"
	"lms_progress_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

// VisibilityFilter 判定某角色是否能看到子概念
// 纯函数，无状态；可见性集合为空或无法解析时一律视为不可见
type VisibilityFilter struct{}

// IsVisible 解析子概念的可见性集合（逗号分隔的角色，忽略大小写和空白），
// 返回 role 是否在其中
func (VisibilityFilter) IsVisible(role model.UserRole, sub *model.Subconcept) bool {
	raw := strings.TrimSpace(sub.Visibility)
	if raw == "" {
		logger.Log.Warn("subconcept visibility empty, treating as hidden",
			zap.Uint("subconceptId", sub.ID))
		return false
	}

	want := strings.ToLower(strings.TrimSpace(string(role)))
	if want == "" {
		return false
	}

	for _, token := range strings.Split(raw, ",") {
		if strings.ToLower(strings.TrimSpace(token)) == want {
			return true
		}
	}
	return false
}
