package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrOTPInvalid         = errors.New("验证码无效或已过期")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrProgramNotFound    = errors.New("program not found")
	ErrStageNotFound      = errors.New("stage not found")
	ErrUnitNotFound       = errors.New("unit not found")
	ErrSubconceptNotFound = errors.New("subconcept not found")
	ErrCohortNotFound     = errors.New("cohort not found")

	ErrScoreExceedsMax     = errors.New("score exceeds subconcept max score")
	ErrInvalidTimeRange    = errors.New("end time before start time")
	ErrSubconceptNotInUnit = errors.New("subconcept does not belong to unit")
)
