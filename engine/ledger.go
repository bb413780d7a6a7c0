/*
ledger.go - Append-only ledger and balance recomputation

PURPOSE:
  Every value-moving event appends a LedgerEntry; account balances are always
  recomputed by folding the FULL entry list. There is no incrementally
  maintained balance to drift out of sync - at this data scale the full fold
  is cheap, and it sidesteps ordering bugs entirely.

DELETE/EDIT:
  Documents that produced entries are unwound by removing every entry whose
  Reference equals the document's human-readable number (not its internal
  id) and, for edits, appending a fresh entry. Callers keep references
  stable and unique per document number.
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORDING
// =============================================================================

// Record appends an entry to a copy of the ledger.
func Record(ledger []LedgerEntry, e LedgerEntry) []LedgerEntry {
	out := append([]LedgerEntry(nil), ledger...)
	return append(out, e)
}

// RemoveByReference returns the ledger without any entry whose Reference
// matches one of refs.
func RemoveByReference(ledger []LedgerEntry, refs ...string) []LedgerEntry {
	out := make([]LedgerEntry, 0, len(ledger))
	for _, e := range ledger {
		if containsString(refs, e.Reference) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// =============================================================================
// BALANCES - Always a full fold
// =============================================================================

// RecomputeBalances derives every account balance from scratch: cash is
// seeded with the initial capital, each bank account with its stored opening
// balance, then every entry is folded in stored order as debit - credit.
// Entries against an account that is missing from the seed map (a bank
// account added after the entry, or a stale id) seed it lazily the same way.
func RecomputeBalances(ledger []LedgerEntry, settings Settings) map[string]decimal.Decimal {
	balances := map[string]decimal.Decimal{
		AccountCash: settings.InitialCapital,
	}
	for _, acc := range settings.BankAccounts {
		balances[acc.ID] = acc.Balance
	}

	for _, e := range ledger {
		accountID := e.AccountID
		if accountID == "" {
			accountID = AccountCash
		}
		if _, ok := balances[accountID]; !ok {
			balances[accountID] = openingBalance(settings.BankAccounts, accountID)
		}
		balances[accountID] = balances[accountID].Add(e.Debit).Sub(e.Credit)
	}
	return balances
}

func openingBalance(accounts []BankAccount, id string) decimal.Decimal {
	for _, acc := range accounts {
		if acc.ID == id {
			return acc.Balance
		}
	}
	return decimal.Zero
}

// TotalBalance sums every account. This is the aggregate reported as the
// current balance; sum(balances) == currentBalance is an invariant.
func TotalBalance(balances map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b)
	}
	return total
}
