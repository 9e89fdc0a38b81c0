package attendance

import (
	"context"

	"github.com/hrms/backend/internal/domain/attendance"
	"github.com/hrms/backend/internal/domain/standup"
)

// TransactionScope provides transactional access to attendance repositories.
// All repository operations inside Execute commit or roll back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories that share one transaction.
//
// Sessions is the aggregate root repository. Breaks are child rows of a
// session kept in their own table so the open-break index can be enforced.
// Standups receive the empty shell row written on punch-in.
type TransactionalRepositories interface {
	Sessions() attendance.SessionRepository
	Breaks() attendance.BreakRepository
	Standups() standup.Repository
}

// NoOpTransactionScope runs the function against plain repositories without
// a transaction. Useful in unit tests with mocked repositories.
type NoOpTransactionScope struct {
	sessions attendance.SessionRepository
	breaks   attendance.BreakRepository
	standups standup.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	sessions attendance.SessionRepository,
	breaks attendance.BreakRepository,
	standups standup.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{sessions: sessions, breaks: breaks, standups: standups}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Sessions returns the session repository.
func (s *NoOpTransactionScope) Sessions() attendance.SessionRepository { return s.sessions }

// Breaks returns the break repository.
func (s *NoOpTransactionScope) Breaks() attendance.BreakRepository { return s.breaks }

// Standups returns the standup repository.
func (s *NoOpTransactionScope) Standups() standup.Repository { return s.standups }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
