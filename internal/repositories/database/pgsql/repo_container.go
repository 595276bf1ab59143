package pgsql

import (
	portsrepo "github.com/SscSPs/mma_statements/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository to dbPool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	base := BaseRepository{Pool: dbPool}

	return portsrepo.RepositoryProvider{
		StatementRepo:  newPgxStatementRepository(base),
		AccountRepo:    newPgxAccountRepository(base),
		SnapshotRepo:   newPgxSnapshotRepository(base),
		CreditCardRepo: newPgxCreditCardRepository(base),
		LedgerRepo:     newPgxLedgerRepository(base),
		TxManager:      &TxManager{BaseRepository: base},
	}
}
