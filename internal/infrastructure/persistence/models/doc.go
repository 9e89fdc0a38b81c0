// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no GORM tags
// 2. Persistence models hold all GORM annotations and table mappings
// 3. Mappers (ToDomain / FromDomain) convert between the two
// 4. Repositories only talk to the database through these models
//
// Timestamps are stored in UTC; calendar bucketing happens in the domain.
//
// Structure:
// - base.go: shared columns (BaseModel, AggregateModel, UserAggregateModel)
// - attendance.go: attendance sessions and breaks
// - standup.go: daily standups
// - activity.go: audit log
// - payroll.go: salary accruals, revenue logs, payouts
// - expense.go: employee expenses
// - registry.go: the full table list used by migrations and schema checks
package models
