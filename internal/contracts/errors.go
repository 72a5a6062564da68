package contracts

import "errors"

// Sentinel errors shared across layers; wrap with %w and match with errors.Is
var (
	// ErrUnknownCategory 알 수 없는 analytics/report 타입 (클라이언트 오류, 재시도 안 함)
	ErrUnknownCategory = errors.New("unknown category")
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
)
