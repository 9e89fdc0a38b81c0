package models

// All returns every persistence model, in dependency order. Migrations in
// tests and the startup schema check both walk this list.
func All() []any {
	return []any{
		&AttendanceSessionModel{},
		&AttendanceBreakModel{},
		&DailyStandupModel{},
		&ActivityLogModel{},
		&SalaryAccrualModel{},
		&RevenueLogModel{},
		&PayoutModel{},
		&ExpenseModel{},
	}
}
