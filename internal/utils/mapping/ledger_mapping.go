package mapping

import (
	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/SscSPs/mma_statements/internal/models"
)

// ToModelLedgerEntry converts the shared ledger columns.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		ID:          d.ID,
		UserID:      d.UserID,
		AccountID:   d.AccountID,
		StatementID: d.StatementID,
		Amount:      d.Amount,
		TxnDate:     d.Date,
		Description: d.Description,
		Category:    d.Category,
		ReferenceNo: d.ReferenceNo,
		IsDeleted:   d.IsDeleted,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts the shared ledger columns.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:          m.ID,
		UserID:      m.UserID,
		AccountID:   m.AccountID,
		StatementID: m.StatementID,
		Amount:      m.Amount,
		Date:        m.TxnDate,
		Description: m.Description,
		Category:    m.Category,
		ReferenceNo: m.ReferenceNo,
		IsDeleted:   m.IsDeleted,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelIncome converts a domain Income to a model Income
func ToModelIncome(d domain.Income) models.Income {
	return models.Income{LedgerEntry: ToModelLedgerEntry(d.LedgerEntry), Payer: d.Payer}
}

// ToModelExpense converts a domain Expense to a model Expense
func ToModelExpense(d domain.Expense) models.Expense {
	var expenseType *string
	if d.ExpenseType != nil {
		v := string(*d.ExpenseType)
		expenseType = &v
	}
	return models.Expense{
		LedgerEntry: ToModelLedgerEntry(d.LedgerEntry),
		ExpenseType: expenseType,
		Seller:      d.Seller,
		Location:    d.Location,
	}
}

// ToModelTransfer converts a domain Transfer to a model Transfer
func ToModelTransfer(d domain.Transfer) models.Transfer {
	return models.Transfer{
		LedgerEntry:  ToModelLedgerEntry(d.LedgerEntry),
		TransferType: string(d.TransferType),
		Direction:    string(d.Direction),
	}
}
