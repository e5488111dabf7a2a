package services

import (
	"time"

	"github.com/isdelr/keypulse-be/internal/store"
)

func NewAccountServiceWithCost(accounts store.AccountStore, tokens TokenIssuer, cost int) *AccountService {
	return newAccountService(accounts, tokens, cost)
}

func (s *VaultService) SetNow(now func() time.Time) {
	s.now = now
}
