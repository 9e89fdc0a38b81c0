package integration

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	activityapp "github.com/hrms/backend/internal/application/activity"
	attendanceapp "github.com/hrms/backend/internal/application/attendance"
	dashboardapp "github.com/hrms/backend/internal/application/dashboard"
	expenseapp "github.com/hrms/backend/internal/application/expense"
	payrollapp "github.com/hrms/backend/internal/application/payroll"
	standupapp "github.com/hrms/backend/internal/application/standup"
	"github.com/hrms/backend/internal/domain/attendance"
	"github.com/hrms/backend/internal/domain/payroll"
	"github.com/hrms/backend/internal/infrastructure/auth"
	"github.com/hrms/backend/internal/infrastructure/cache"
	"github.com/hrms/backend/internal/infrastructure/config"
	"github.com/hrms/backend/internal/infrastructure/event"
	"github.com/hrms/backend/internal/infrastructure/persistence"
	"github.com/hrms/backend/internal/interfaces/http/handler"
	"github.com/hrms/backend/internal/interfaces/http/middleware"
	"github.com/hrms/backend/internal/interfaces/http/router"
	"github.com/hrms/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testApp is the HTTP API wired to a real database with in-memory stores
type testApp struct {
	Engine *gin.Engine
	Bus    *event.InMemoryEventBus
	jwt    *auth.JWTService
	t      *testing.T
}

func newTestApp(t *testing.T, db *gorm.DB) *testApp {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())

	log := zap.NewNop()
	calendar, err := attendance.NewCalendar("UTC")
	require.NoError(t, err)

	sessions := persistence.NewGormSessionRepository(db)
	breaks := persistence.NewGormBreakRepository(db)
	activityRepo := persistence.NewGormActivityLogRepository(db)
	versions := cache.NewInMemoryVersionStore()

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(activityapp.NewRecorder(activityRepo, calendar.Location(), log))
	bus.Subscribe(dashboardapp.NewInvalidator(versions, log))

	attendanceService := attendanceapp.NewService(sessions, breaks,
		persistence.NewGormAttendanceTransactionScope(db), calendar,
		attendanceapp.Config{SubtractBreaks: true, SweepBatchSize: 100}, log)
	attendanceService.SetEventPublisher(bus)

	policy, err := payroll.PolicyByName(payroll.PolicyFIFOSpillover)
	require.NoError(t, err)
	payrollService := payrollapp.NewService(
		persistence.NewGormAccrualRepository(db),
		persistence.NewGormRevenueRepository(db),
		persistence.NewGormPayoutRepository(db),
		persistence.NewGormPayrollTransactionScope(db),
		policy, log)
	payrollService.SetEventPublisher(bus)

	jwtService := auth.NewJWTService(config.JWTConfig{Secret: "integration-secret", Issuer: "hrms-test"})

	engine := gin.New()
	engine.Use(middleware.RequestID())
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddleware(jwtService))
	for _, group := range router.DomainGroups(router.Handlers{
		Attendance: handler.NewAttendanceHandler(attendanceService),
		Payroll:    handler.NewPayrollHandler(payrollService),
		Standup:    handler.NewStandupHandler(standupapp.NewService(persistence.NewGormStandupRepository(db), calendar, log)),
		Expense:    handler.NewExpenseHandler(expenseapp.NewService(persistence.NewGormExpenseRepository(db), calendar, log)),
		Activity:   handler.NewActivityHandler(activityapp.NewService(activityRepo), dashboardapp.NewService(versions)),
	}, middleware.Idempotency(cache.NewInMemoryIdempotencyStore(), time.Hour)) {
		r.Register(group)
	}
	r.Setup()

	return &testApp{Engine: engine, Bus: bus, jwt: jwtService, t: t}
}

// As returns request headers authenticating userID
func (a *testApp) As(userID uuid.UUID) map[string]string {
	a.t.Helper()
	token, err := a.jwt.IssueToken(userID, "tester", time.Hour)
	require.NoError(a.t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

// Do performs an authenticated request
func (a *testApp) Do(userID uuid.UUID, method, path string, body any) (int, testutil.Envelope) {
	a.t.Helper()
	w := testutil.PerformRequest(a.t, a.Engine, method, path, body, a.As(userID))
	return w.Code, testutil.DecodeEnvelope(a.t, w)
}
