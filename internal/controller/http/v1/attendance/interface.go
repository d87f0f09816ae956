package attendance

import (
	"context"

	"presence/backend/internal/recorder"
	"presence/backend/internal/repository/postgres/attendance"
	"presence/backend/internal/syncqueue"
)

type Attendance interface {
	GetList(ctx context.Context, filter attendance.Filter) ([]attendance.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (attendance.GetDetailByIdResponse, error)
	CreateClockIn(ctx context.Context, request attendance.ClockInRequest) (attendance.ClockInResponse, error)
	ClockOut(ctx context.Context, request attendance.ClockOutRequest) (attendance.ClockOutResponse, error)
	UpdateColumns(ctx context.Context, request attendance.UpdateRequest) error
	Delete(ctx context.Context, id int) error

	GetStatistics(ctx context.Context, organizationID int) (attendance.GetStatisticResponse, error)
	GetPieChartStatistic(ctx context.Context, organizationID int) (attendance.PieChartResponse, error)
	GetBarChartStatistic(ctx context.Context, organizationID int) ([]attendance.BarChartResponse, error)
	GetGraphStatistic(ctx context.Context, organizationID int, filter attendance.GraphRequest) ([]attendance.GraphResponse, error)
	GetExportRows(ctx context.Context, organizationID int, day string) ([]attendance.ExportRow, error)
}

type Recorder interface {
	Mark(ctx context.Context, attempt recorder.Attempt) (recorder.Result, error)
}

type Queue interface {
	Pending(ctx context.Context) (attendance int, embeddings int, err error)
	Online() bool
	SetOnline(online bool)
	PerformFullSync(ctx context.Context) syncqueue.SyncReport
}
