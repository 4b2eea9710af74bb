// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package dctx carries a debate id through a context.Context for logging
// and correlation across the kernel's single-threaded run loop.
package dctx

import "context"

type debateIDKey struct{}

// WithDebateID injects a debate id into the context.
func WithDebateID(ctx context.Context, debateID string) context.Context {
	if debateID == "" {
		return ctx
	}
	return context.WithValue(ctx, debateIDKey{}, debateID)
}

// DebateIDFromContext extracts the debate id from the context.
// Returns empty string if not found.
func DebateIDFromContext(ctx context.Context) string {
	if debateID, ok := ctx.Value(debateIDKey{}).(string); ok {
		return debateID
	}
	return ""
}
