package logging

import (
	"time"

	"go.uber.org/zap"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	AuditToolInvoke   AuditEventType = "tool_invoke"
	AuditToolComplete AuditEventType = "tool_complete"
	AuditToolError    AuditEventType = "tool_error"

	AuditFileWrite AuditEventType = "file_write"
	AuditFileRead  AuditEventType = "file_read"

	AuditCatalogLoad AuditEventType = "catalog_load"
)

// AuditEvent represents a structured audit log entry.
type AuditEvent struct {
	EventType AuditEventType
	RequestID string
	Target    string // tool name, file path, ...
	Success   bool
	Duration  time.Duration
	Error     string
	Message   string
}

// Audit writes a structured event to the audit category. Unlike the printf
// loggers, fields are emitted as discrete zap fields so they stay queryable.
func Audit(ev AuditEvent) {
	fields := []zap.Field{
		zap.String("event", string(ev.EventType)),
		zap.String("target", ev.Target),
		zap.Bool("success", ev.Success),
	}
	if ev.RequestID != "" {
		fields = append(fields, zap.String("req", ev.RequestID))
	}
	if ev.Duration > 0 {
		fields = append(fields, zap.Int64("dur_ms", ev.Duration.Milliseconds()))
	}
	if ev.Error != "" {
		fields = append(fields, zap.String("error", ev.Error))
	}

	msg := ev.Message
	if msg == "" {
		msg = string(ev.EventType)
	}

	l := Zap().Named(string(CategoryAudit))
	if ev.Success {
		l.Info(msg, fields...)
	} else {
		l.Warn(msg, fields...)
	}
}

// ToolInvoke records the start of a tool call.
func ToolInvoke(requestID, tool string) {
	Audit(AuditEvent{EventType: AuditToolInvoke, RequestID: requestID, Target: tool, Success: true})
}

// ToolDone records the end of a tool call; err == nil means success.
func ToolDone(requestID, tool string, took time.Duration, err error) {
	ev := AuditEvent{
		EventType: AuditToolComplete,
		RequestID: requestID,
		Target:    tool,
		Success:   err == nil,
		Duration:  took,
	}
	if err != nil {
		ev.EventType = AuditToolError
		ev.Error = err.Error()
	}
	Audit(ev)
}
