package router

import (
	"time"

	"presence/backend/foundation/web"
	"presence/backend/internal/auth"
	"presence/backend/internal/controller/http/v1/file"
	"presence/backend/internal/middleware"
	"presence/backend/internal/pkg/cache"
	"presence/backend/internal/pkg/config"
	"presence/backend/internal/pkg/repository/postgresql"
	"presence/backend/internal/recorder"
	"presence/backend/internal/syncqueue"
	"presence/backend/internal/vision"

	"github.com/redis/go-redis/v9"

	"presence/backend/internal/repository/postgres/attendance"
	"presence/backend/internal/repository/postgres/branch"
	"presence/backend/internal/repository/postgres/customer"
	"presence/backend/internal/repository/postgres/device"
	"presence/backend/internal/repository/postgres/faceembedding"
	"presence/backend/internal/repository/postgres/leave"
	"presence/backend/internal/repository/postgres/organization"
	"presence/backend/internal/repository/postgres/user"
	"presence/backend/internal/repository/postgres/vehicle"
	"presence/backend/internal/repository/postgres/visitor"

	attendance_controller "presence/backend/internal/controller/http/v1/attendance"
	auth_controller "presence/backend/internal/controller/http/v1/auth"
	branch_controller "presence/backend/internal/controller/http/v1/branch"
	customer_controller "presence/backend/internal/controller/http/v1/customer"
	device_controller "presence/backend/internal/controller/http/v1/device"
	leave_controller "presence/backend/internal/controller/http/v1/leave"
	organization_controller "presence/backend/internal/controller/http/v1/organization"
	user_controller "presence/backend/internal/controller/http/v1/user"
	vehicle_controller "presence/backend/internal/controller/http/v1/vehicle"
	visitor_controller "presence/backend/internal/controller/http/v1/visitor"
)

type Router struct {
	*web.App
	postgresDB         *postgresql.Database
	redisDB            *redis.Client
	queue              *syncqueue.Queue
	extractor          *vision.Extractor
	cfg                *config.Config
	port               string
	auth               *auth.Auth
	fileServerBasePath string
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	queue *syncqueue.Queue,
	extractor *vision.Extractor,
	cfg *config.Config,
	port string,
	auth *auth.Auth,
	fileServerBasePath string,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		queue,
		extractor,
		cfg,
		port,
		auth,
		fileServerBasePath,
	}
}

func (r Router) Init() error {

	r.HandleMethodNotAllowed = true
	r.Use(middleware.CorsMiddleware())

	// - postgresql
	userPostgres := user.NewRepository(r.postgresDB)
	organizationPostgres := organization.NewRepository(r.postgresDB)
	branchPostgres := branch.NewRepository(r.postgresDB)
	devicePostgres := device.NewRepository(r.postgresDB)
	faceEmbeddingPostgres := faceembedding.NewRepository(r.postgresDB)
	attendancePostgres := attendance.NewRepository(r.postgresDB)
	visitorPostgres := visitor.NewRepository(r.postgresDB)
	customerPostgres := customer.NewRepository(r.postgresDB)
	vehiclePostgres := vehicle.NewRepository(r.postgresDB)
	leavePostgres := leave.NewRepository(r.postgresDB)

	// - redis
	statisticsCache := cache.New(r.redisDB, 30*time.Second)

	// face pipeline
	attendanceRecorder := recorder.New(
		r.extractor,
		faceEmbeddingPostgres,
		attendancePostgres,
		r.queue,
		r.cfg.SimilarityThreshold,
	)

	// controller
	authController := auth_controller.NewController(userPostgres, devicePostgres, r.cfg.PrivatePemPath)
	userController := user_controller.NewController(userPostgres, faceEmbeddingPostgres, r.extractor, r.queue)
	organizationController := organization_controller.NewController(organizationPostgres)
	branchController := branch_controller.NewController(branchPostgres)
	deviceController := device_controller.NewController(devicePostgres)
	attendanceController := attendance_controller.NewController(attendancePostgres, attendanceRecorder, r.queue, statisticsCache)
	visitorController := visitor_controller.NewController(visitorPostgres)
	customerController := customer_controller.NewController(customerPostgres)
	vehicleController := vehicle_controller.NewController(vehiclePostgres)
	leaveController := leave_controller.NewController(leavePostgres)

	fileC := file.NewController(r.App, r.fileServerBasePath)

	// #auth
	r.Post("/api/v1/sign-in", authController.SignIn)
	r.Post("/api/v1/device/sign-in", authController.DeviceSignIn)
	r.Post("/api/v1/refresh-token", authController.RefreshToken)

	r.GET("/media/*filepath", fileC.File)
	r.HEAD("/media/*filepath", fileC.File)

	// #user
	r.Get("/api/v1/user/list", userController.GetUserList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDashboard))
	r.Get("/api/v1/user/:id", userController.GetUserDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/user/create", userController.CreateUser, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/user/:id", userController.UpdateUserColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/user/:id", userController.DeleteUser, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #face
	r.Post("/api/v1/user/:id/face", userController.EnrollFace, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee))
	r.Get("/api/v1/face/list", userController.GetFaceList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDashboard))
	r.Delete("/api/v1/face/:id", userController.DeleteFace, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #organization
	r.Get("/api/v1/organization/list", organizationController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/organization/:id", organizationController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee, auth.RoleDashboard))
	r.Post("/api/v1/organization/create", organizationController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/organization/:id", organizationController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/organization/:id", organizationController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #branch
	r.Get("/api/v1/branch/list", branchController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee, auth.RoleDashboard))
	r.Get("/api/v1/branch/:id", branchController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee, auth.RoleDashboard))
	r.Post("/api/v1/branch/create", branchController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/branch/:id", branchController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/branch/:id", branchController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #device
	r.Get("/api/v1/device/list", deviceController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee, auth.RoleDashboard))
	r.Get("/api/v1/device/:id", deviceController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee, auth.RoleDashboard))
	r.Post("/api/v1/device/create", deviceController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/device/qrcode", deviceController.PairingQR, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/device/heartbeat", deviceController.Heartbeat, middleware.Authenticate(r.auth, auth.RoleDevice))
	r.Patch("/api/v1/device/:id", deviceController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/device/:id", deviceController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #attendance
	r.Post("/api/v1/attendance/mark", attendanceController.MarkByFace, middleware.Authenticate(r.auth, auth.RoleDevice))
	r.Post("/api/v1/attendance/clock-in", attendanceController.ClockIn, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/attendance/clock-out", attendanceController.ClockOut, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee, auth.RoleDevice))
	r.Get("/api/v1/attendance/list", attendanceController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee, auth.RoleDashboard))
	r.Get("/api/v1/attendance/:id", attendanceController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/attendance/:id", attendanceController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/attendance/:id", attendanceController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/attendance", attendanceController.GetStatistics, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDashboard))
	r.Get("/api/v1/attendance/piechart", attendanceController.GetPieChartStatistics, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDashboard))
	r.Get("/api/v1/attendance/barchart", attendanceController.GetBarChartStatistics, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDashboard))
	r.Get("/api/v1/attendance/graph", attendanceController.GetGraphStatistic, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDashboard))
	r.Get("/api/v1/attendance/export", attendanceController.ExportExcel, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #sync
	r.Get("/api/v1/sync/status", attendanceController.SyncStatus, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDevice))
	r.Post("/api/v1/sync/run", attendanceController.TriggerSync, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/sync/online", attendanceController.SetOnline, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDevice))

	// #visitor
	r.Get("/api/v1/visitor/list", visitorController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee, auth.RoleDashboard))
	r.Get("/api/v1/visitor/:id", visitorController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee, auth.RoleDashboard))
	r.Get("/api/v1/visitor/:id/badge", visitorController.Badge, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee))
	r.Post("/api/v1/visitor/check-in", visitorController.CheckIn, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee))
	r.Patch("/api/v1/visitor/:id/check-out", visitorController.CheckOut, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee))
	r.Delete("/api/v1/visitor/:id", visitorController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #customer
	r.Get("/api/v1/customer/list", customerController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee, auth.RoleDashboard))
	r.Get("/api/v1/customer/:id", customerController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee, auth.RoleDashboard))
	r.Post("/api/v1/customer/create", customerController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee))
	r.Patch("/api/v1/customer/:id", customerController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee))
	r.Delete("/api/v1/customer/:id", customerController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #vehicle
	r.Get("/api/v1/vehicle/list", vehicleController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee, auth.RoleDashboard))
	r.Post("/api/v1/vehicle/entry", vehicleController.Entry, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee))
	r.Patch("/api/v1/vehicle/:id/exit", vehicleController.Exit, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee))
	r.Delete("/api/v1/vehicle/:id", vehicleController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #leave
	r.Get("/api/v1/leave/list", leaveController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee, auth.RoleDashboard))
	r.Post("/api/v1/leave/create", leaveController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleEmployee))
	r.Patch("/api/v1/leave/:id/review", leaveController.Review, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/leave/:id", leaveController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	return r.Run(r.port)
}
