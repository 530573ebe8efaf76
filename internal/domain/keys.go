package domain

type CtxKey string

const (
	KeyUserID  CtxKey = "UserID"
	KeyPhone   CtxKey = "Phone"
	KeyIsAdmin CtxKey = "IsAdmin"
)
