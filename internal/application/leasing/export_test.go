package leasing

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// SetClock replaces the onboarding clock
func (s *OnboardingService) SetClock(now func() time.Time) { s.now = now }

// UseFastRetries makes compensation retries wait a millisecond
func (s *OnboardingService) UseFastRetries() {
	s.newBackOff = func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }
}

// SetContractClock replaces the termination clock
func (s *ContractService) SetContractClock(now func() time.Time) { s.now = now }

// SetPayableClock replaces the payable clock
func (s *PayableService) SetPayableClock(now func() time.Time) { s.now = now }
