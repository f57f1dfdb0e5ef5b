package middleware

import (
	"context"
)

type contextKey string

const (
	ContextUserID   contextKey = "userID"
	ContextToken    contextKey = "token"
	ContextDeviceID contextKey = "deviceID"
	ContextRole     contextKey = "role"
)

func GetUserID(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(ContextUserID).(string)
	return val, ok
}

func GetToken(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(ContextToken).(string)
	return val, ok
}
