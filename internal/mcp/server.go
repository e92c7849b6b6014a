package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/attendance/internal/domain/activity"
	"github.com/rpggio/attendance/internal/domain/calendar"
	"github.com/rpggio/attendance/internal/domain/ledger"
	"github.com/rpggio/attendance/internal/domain/subject"
	"github.com/rpggio/attendance/internal/domain/tracker"
)

// TrackerService defines tracker operations needed by MCP.
type TrackerService interface {
	Subjects(ctx context.Context) ([]subject.Subject, error)
	AddSubject(ctx context.Context) (subject.Subject, error)
	UpdateSubject(ctx context.Context, req tracker.UpdateRequest) (tracker.UpdateResult, error)
	RemoveSubject(ctx context.Context, id string) (tracker.RemoveResult, error)
	RecordAttendance(ctx context.Context, date time.Time, name string) (tracker.AttendanceResult, error)
	RemoveAttendance(ctx context.Context, date time.Time, name string) (tracker.AttendanceResult, error)
	SaveAttendance(ctx context.Context, date time.Time, names []string) ([]tracker.AttendanceResult, error)
	MarkDay(ctx context.Context, date time.Time, f ledger.Filter) (tracker.AttendanceResult, error)
	UnmarkDay(ctx context.Context, date time.Time, f ledger.Filter) (tracker.AttendanceResult, error)
	Overview(ctx context.Context) (tracker.Overview, error)
	Heatmap(ctx context.Context, f ledger.Filter) (calendar.Heatmap, error)
	CurrentStreak(ctx context.Context, f ledger.Filter) (int, error)
	History(ctx context.Context) (ledger.Ledger, error)
	ParseDate(key string) (time.Time, error)
	Today() string
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Tracker  TrackerService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "attendance",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Services.Tracker, cfg.Services.Activity), cfg.Logger)

	return server
}
