package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"lms_progress_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	otpKeyPrefix = "pwdreset_otp:"
	otpTTL       = 10 * time.Minute
)

// OTPStore 密码重置验证码存储
//
// 放在 Redis 而不是进程内存：验证码必须在进程重启后仍然有效，
// 过期由 TTL 负责，不需要清理协程
type OTPStore struct {
	rdb *redis.Client
}

func NewOTPStore(rdb *redis.Client) *OTPStore {
	return &OTPStore{rdb: rdb}
}

// Issue 生成并保存 6 位验证码，覆盖同邮箱的旧验证码
func (s *OTPStore) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateOTP()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, otpKeyPrefix+email, code, otpTTL).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify 校验并消费验证码，一次性使用
func (s *OTPStore) Verify(ctx context.Context, email, code string) bool {
	key := otpKeyPrefix + email
	stored, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		logger.Log.Error("otp lookup failed", zap.Error(err))
		return false
	}
	if stored != code {
		return false
	}
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		logger.Log.Warn("otp cleanup failed", zap.Error(err))
	}
	return true
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
