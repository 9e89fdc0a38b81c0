package router

import (
	"github.com/gin-gonic/gin"
	"github.com/hrms/backend/internal/interfaces/http/handler"
)

// Handlers are the domain handlers served under the versioned API
type Handlers struct {
	Attendance *handler.AttendanceHandler
	Payroll    *handler.PayrollHandler
	Standup    *handler.StandupHandler
	Expense    *handler.ExpenseHandler
	Activity   *handler.ActivityHandler
}

// DomainGroups builds the route groups of the API. idempotent guards the
// state-changing routes a client may retry; nil leaves them unguarded.
func DomainGroups(h Handlers, idempotent gin.HandlerFunc) []*DomainGroup {
	if idempotent == nil {
		idempotent = func(c *gin.Context) { c.Next() }
	}

	attendance := NewDomainGroup("attendance", "/attendance")
	attendance.POST("/punch-in", idempotent, h.Attendance.PunchIn).
		POST("/punch-out", idempotent, h.Attendance.PunchOut).
		POST("/break/start", h.Attendance.StartBreak).
		POST("/break/resume", h.Attendance.ResumeWork).
		GET("/status", h.Attendance.GetStatus).
		GET("/history", h.Attendance.History).
		GET("/streak", h.Attendance.Streak).
		GET("/summary", h.Attendance.MonthlySummary)

	standups := NewDomainGroup("standups", "/standups")
	standups.POST("", h.Standup.Submit).
		GET("", h.Standup.Get).
		GET("/team", h.Standup.Team)

	activity := NewDomainGroup("activity", "/activity")
	activity.GET("", h.Activity.List)

	dashboard := NewDomainGroup("dashboard", "/dashboard")
	dashboard.GET("/version", h.Activity.DashboardVersion)

	payroll := NewDomainGroup("payroll", "/payroll")
	payroll.POST("/accruals", h.Payroll.CreateAccrual).
		GET("/accruals", h.Payroll.ListAccruals).
		POST("/revenue", h.Payroll.RecordRevenue).
		GET("/revenue", h.Payroll.ListRevenue).
		GET("/revenue/:id", h.Payroll.GetRevenue).
		POST("/revenue/:id/distribute", idempotent, h.Payroll.Distribute).
		GET("/payouts", h.Payroll.ListPayouts)

	expenses := NewDomainGroup("expenses", "/expenses")
	expenses.POST("", h.Expense.Create).
		GET("", h.Expense.List).
		GET("/summary", h.Expense.Summary).
		DELETE("/:id", h.Expense.Delete)

	return []*DomainGroup{attendance, standups, activity, dashboard, payroll, expenses}
}
