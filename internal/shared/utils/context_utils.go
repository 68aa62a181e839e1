package utils

import (
	"context"
	"errors"

	"devconnector/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrUserIDNotFound     = errors.New("userID not found in context")
	ErrUserIDNotString    = errors.New("userID in context is not a string")
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
)

// GetUserIDFromContext retrieves the authenticated user ID from the context.
// It returns an error if the user ID is not found or is not a string.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.UserIDKey)
	if val == nil {
		return "", ErrUserIDNotFound
	}
	userID, ok := val.(string)
	if !ok {
		return "", ErrUserIDNotString
	}
	return userID, nil
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotString
	}
	return requestID, nil
}

// Context builder functions

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithComponent adds component name to context
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}

// WithOperation adds operation name to context
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// GetUserIDOrDefault retrieves the user ID from context or returns a default value
func GetUserIDOrDefault(ctx context.Context, def string) string {
	if v, err := GetUserIDFromContext(ctx); err == nil {
		return v
	}
	return def
}

func HasUserID(ctx context.Context) bool {
	_, err := GetUserIDFromContext(ctx)
	return err == nil
}
