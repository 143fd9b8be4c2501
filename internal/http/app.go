// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"novaestudio_backend/internal/events"
	"novaestudio_backend/platform/config"
	"novaestudio_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.AdminConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and admin settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness/health checks (e.g., DB ping).
	Health HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// ChatRateLimit is the per-IP limiter middleware for the chat route.
	ChatRateLimit gin.HandlerFunc
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
