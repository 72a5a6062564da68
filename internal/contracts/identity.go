package contracts

// Identity is the authenticated caller
// ⭐ SSOT: 기본 사용자(user_id=1) 폴백 없음, 모든 기록 호출에 명시적으로 전달
type Identity struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// SystemIdentity is used by scheduled jobs and CLI commands
func SystemIdentity() Identity {
	return Identity{UserID: 0, Email: "system", Role: "system"}
}

// IsSystem reports whether the identity is the scheduler/CLI actor
func (i Identity) IsSystem() bool {
	return i.Role == "system"
}
