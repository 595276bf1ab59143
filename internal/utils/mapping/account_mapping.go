package mapping

import (
	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/SscSPs/mma_statements/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		UserID:         d.UserID,
		AccountNo:      d.AccountNo,
		AccountName:    d.AccountName,
		AccountType:    string(d.AccountType),
		AccountSubtype: d.AccountSubtype,
		Balance:        d.Balance,
		CardID:         d.CardID,
		IsDeleted:      d.IsDeleted,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		UserID:         m.UserID,
		AccountNo:      m.AccountNo,
		AccountName:    m.AccountName,
		AccountType:    domain.AccountType(m.AccountType),
		AccountSubtype: m.AccountSubtype,
		Balance:        m.Balance,
		CardID:         m.CardID,
		IsDeleted:      m.IsDeleted,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToModelSnapshot converts a domain AccountBalanceSnapshot to its row.
func ToModelSnapshot(d domain.AccountBalanceSnapshot) models.AccountBalanceSnapshot {
	return models.AccountBalanceSnapshot{
		SnapshotID:     d.SnapshotID,
		AccountID:      d.AccountID,
		StatementID:    d.StatementID,
		SnapshotDate:   d.SnapshotDate,
		ClosingBalance: d.ClosingBalance,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSnapshot converts a snapshot row to the domain type.
func ToDomainSnapshot(m models.AccountBalanceSnapshot) domain.AccountBalanceSnapshot {
	return domain.AccountBalanceSnapshot{
		SnapshotID:     m.SnapshotID,
		AccountID:      m.AccountID,
		StatementID:    m.StatementID,
		SnapshotDate:   m.SnapshotDate,
		ClosingBalance: m.ClosingBalance,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCreditCard converts a domain UserCreditCard to its row.
func ToModelCreditCard(d domain.UserCreditCard) models.UserCreditCard {
	return models.UserCreditCard{
		CardID:            d.CardID,
		UserID:            d.UserID,
		CardName:          d.CardName,
		CardBrand:         d.CardBrand,
		CreditLimit:       d.CreditLimit,
		CurrentBalance:    d.CurrentBalance,
		NextPaymentAmount: d.NextPaymentAmount,
		NextPaymentDate:   d.NextPaymentDate,
		IsDeleted:         d.IsDeleted,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCreditCard converts a credit card row to the domain type.
func ToDomainCreditCard(m models.UserCreditCard) domain.UserCreditCard {
	return domain.UserCreditCard{
		CardID:            m.CardID,
		UserID:            m.UserID,
		CardName:          m.CardName,
		CardBrand:         m.CardBrand,
		CreditLimit:       m.CreditLimit,
		CurrentBalance:    m.CurrentBalance,
		NextPaymentAmount: m.NextPaymentAmount,
		NextPaymentDate:   m.NextPaymentDate,
		IsDeleted:         m.IsDeleted,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
