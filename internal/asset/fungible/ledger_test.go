package fungible

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"assetgate/internal/asset/core"
	"assetgate/internal/asset/models"
	"assetgate/internal/asset/validator"
	"assetgate/internal/events"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

const (
	admin = id.Address("admin")
	alice = id.Address("alice")
	bob   = id.Address("bob")
	carol = id.Address("carol")
)

// scriptedValidator rejects or intercepts per classification.
type scriptedValidator struct {
	mintErr     error
	transferErr error
	burnErr     error
	approvalErr error
	onTransfer  func(ctx context.Context, call validator.Call) error
}

func (v *scriptedValidator) OnMint(context.Context, validator.Call) error { return v.mintErr }
func (v *scriptedValidator) OnTransfer(ctx context.Context, call validator.Call) error {
	if v.onTransfer != nil {
		return v.onTransfer(ctx, call)
	}
	return v.transferErr
}
func (v *scriptedValidator) OnBurn(context.Context, validator.Call) error     { return v.burnErr }
func (v *scriptedValidator) OnApproval(context.Context, validator.Call) error { return v.approvalErr }
func (v *scriptedValidator) IsRestricted(context.Context, id.Address) (bool, error) {
	return false, nil
}

type FungibleLedgerSuite struct {
	suite.Suite
	ctx       context.Context
	publisher *events.Memory
}

func TestFungibleLedgerSuite(t *testing.T) {
	suite.Run(t, new(FungibleLedgerSuite))
}

func (s *FungibleLedgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.publisher = events.NewMemory()
}

func (s *FungibleLedgerSuite) newLedger(cfg models.Config, v validator.Validator) *Ledger {
	c := core.New(id.NewAssetID(), cfg,
		core.WithPublisher(s.publisher),
		core.WithValidationBudget(200*time.Millisecond),
	)
	c.Table.Seed(id.CapabilityOwner, admin)
	if cfg.Mintable {
		c.Table.Seed(id.CapabilityIssuer, admin)
	}
	if cfg.Freezable {
		c.Table.Seed(id.CapabilityFreezeController, admin)
	}
	if v != nil {
		c.Gateway.Install(v, "scripted")
	}
	return New(c)
}

func defaultConfig() models.Config {
	return models.Config{
		Name:      "Test Coin",
		Symbol:    "TST",
		Decimals:  6,
		Mintable:  true,
		Burnable:  true,
		Freezable: true,
	}
}

func (s *FungibleLedgerSuite) sumBalances(l *Ledger, holders ...id.Address) uint64 {
	var sum uint64
	for _, holder := range holders {
		sum += l.BalanceOf(holder)
	}
	return sum
}

func (s *FungibleLedgerSuite) TestMint() {
	s.Run("issuer mints to holder", func() {
		l := s.newLedger(defaultConfig(), nil)
		s.Require().NoError(l.Mint(s.ctx, admin, alice, 100))
		s.Equal(uint64(100), l.BalanceOf(alice))
		s.Equal(uint64(100), l.TotalSupply())

		evts := s.publisher.Events()
		s.Require().Len(evts, 1)
		s.Equal(events.ActionTransferred, evts[0].Action)
		s.Equal(id.ClassificationMint, evts[0].Classification)
		s.True(evts[0].From.IsNull())
		s.Equal(alice, evts[0].To)
	})

	s.Run("non-issuer is unauthorized", func() {
		l := s.newLedger(defaultConfig(), nil)
		err := l.Mint(s.ctx, alice, alice, 100)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Zero(l.TotalSupply())
	})

	s.Run("mintable flag off is feature_disabled", func() {
		cfg := defaultConfig()
		cfg.Mintable = false
		l := s.newLedger(cfg, nil)
		// Owner without Issuer: the flag is checked after the capability, so
		// seed Issuer explicitly to isolate the flag.
		l.Core().Table.Seed(id.CapabilityIssuer, admin)
		err := l.Mint(s.ctx, admin, alice, 100)
		s.True(dErrors.HasCode(err, dErrors.CodeFeatureDisabled))
	})

	s.Run("mint to null holder rejected", func() {
		l := s.newLedger(defaultConfig(), nil)
		err := l.Mint(s.ctx, admin, id.NullHolder, 100)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *FungibleLedgerSuite) TestTransfer() {
	s.Run("moves balance and preserves supply", func() {
		l := s.newLedger(defaultConfig(), nil)
		s.Require().NoError(l.Mint(s.ctx, admin, alice, 100))
		s.Require().NoError(l.Transfer(s.ctx, alice, bob, 40))

		s.Equal(uint64(60), l.BalanceOf(alice))
		s.Equal(uint64(40), l.BalanceOf(bob))
		s.Equal(uint64(100), l.TotalSupply())
		s.Equal(l.TotalSupply(), s.sumBalances(l, alice, bob))
	})

	s.Run("insufficient balance", func() {
		l := s.newLedger(defaultConfig(), nil)
		s.Require().NoError(l.Mint(s.ctx, admin, alice, 10))
		err := l.Transfer(s.ctx, alice, bob, 11)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientBalance))
		s.Equal(uint64(10), l.BalanceOf(alice))
		s.Zero(l.BalanceOf(bob))
	})

	s.Run("delegated transfer consumes allowance", func() {
		l := s.newLedger(defaultConfig(), nil)
		s.Require().NoError(l.Mint(s.ctx, admin, alice, 100))
		s.Require().NoError(l.Approve(s.ctx, alice, bob, 50))

		s.Require().NoError(l.TransferFrom(s.ctx, bob, alice, carol, 30))
		s.Equal(uint64(70), l.BalanceOf(alice))
		s.Equal(uint64(30), l.BalanceOf(carol))
		s.Equal(uint64(20), l.Allowance(alice, bob))
	})

	s.Run("delegated transfer without allowance", func() {
		l := s.newLedger(defaultConfig(), nil)
		s.Require().NoError(l.Mint(s.ctx, admin, alice, 100))
		err := l.TransferFrom(s.ctx, bob, alice, carol, 30)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientBalance))
	})

	s.Run("zero amount moves nothing, even delegated without allowance", func() {
		l := s.newLedger(defaultConfig(), nil)
		s.Require().NoError(l.Mint(s.ctx, admin, alice, 100))

		s.Require().NoError(l.TransferFrom(s.ctx, bob, alice, carol, 0))
		s.Equal(uint64(100), l.BalanceOf(alice))
		s.Zero(l.BalanceOf(carol))
		s.Zero(l.Allowance(alice, bob))
		s.Equal(uint64(100), l.TotalSupply())
	})
}

func (s *FungibleLedgerSuite) TestBurn() {
	s.Run("burns own balance and shrinks supply", func() {
		l := s.newLedger(defaultConfig(), nil)
		s.Require().NoError(l.Mint(s.ctx, admin, alice, 100))
		s.Require().NoError(l.Burn(s.ctx, alice, alice, 30))
		s.Equal(uint64(70), l.BalanceOf(alice))
		s.Equal(uint64(70), l.TotalSupply())
	})

	s.Run("burnable flag off is feature_disabled", func() {
		cfg := defaultConfig()
		cfg.Burnable = false
		l := s.newLedger(cfg, nil)
		s.Require().NoError(l.Mint(s.ctx, admin, alice, 100))
		err := l.Burn(s.ctx, alice, alice, 30)
		s.True(dErrors.HasCode(err, dErrors.CodeFeatureDisabled))
		s.Equal(uint64(100), l.TotalSupply())
	})

	s.Run("delegated burn requires allowance", func() {
		l := s.newLedger(defaultConfig(), nil)
		s.Require().NoError(l.Mint(s.ctx, admin, alice, 100))
		err := l.Burn(s.ctx, bob, alice, 30)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientBalance))

		s.Require().NoError(l.Approve(s.ctx, alice, bob, 30))
		s.Require().NoError(l.Burn(s.ctx, bob, alice, 30))
		s.Equal(uint64(70), l.TotalSupply())
		s.Zero(l.Allowance(alice, bob))
	})

	s.Run("zero amount burns nothing, even delegated without allowance", func() {
		l := s.newLedger(defaultConfig(), nil)
		s.Require().NoError(l.Mint(s.ctx, admin, alice, 100))

		s.Require().NoError(l.Burn(s.ctx, bob, alice, 0))
		s.Equal(uint64(100), l.BalanceOf(alice))
		s.Equal(uint64(100), l.TotalSupply())
	})
}

func (s *FungibleLedgerSuite) TestFreeze() {
	s.Run("freeze blocks transfers but not approvals", func() {
		l := s.newLedger(defaultConfig(), nil)
		s.Require().NoError(l.Mint(s.ctx, admin, alice, 100))
		s.Require().NoError(l.Freeze(s.ctx, admin))
		s.True(l.IsFrozen())

		err := l.Transfer(s.ctx, alice, bob, 10)
		s.True(dErrors.HasCode(err, dErrors.CodeFrozen))
		err = l.Mint(s.ctx, admin, alice, 10)
		s.True(dErrors.HasCode(err, dErrors.CodeFrozen))
		err = l.Burn(s.ctx, alice, alice, 10)
		s.True(dErrors.HasCode(err, dErrors.CodeFrozen))

		s.NoError(l.Approve(s.ctx, alice, bob, 25))
		s.Equal(uint64(25), l.Allowance(alice, bob))
	})

	s.Run("unfreeze restores mutations", func() {
		l := s.newLedger(defaultConfig(), nil)
		s.Require().NoError(l.Mint(s.ctx, admin, alice, 100))
		s.Require().NoError(l.Freeze(s.ctx, admin))
		s.Require().NoError(l.Unfreeze(s.ctx, admin))
		s.NoError(l.Transfer(s.ctx, alice, bob, 10))
	})

	s.Run("double freeze is a conflict with no state change", func() {
		l := s.newLedger(defaultConfig(), nil)
		s.Require().NoError(l.Freeze(s.ctx, admin))
		err := l.Freeze(s.ctx, admin)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.True(l.IsFrozen())

		s.Require().NoError(l.Unfreeze(s.ctx, admin))
		err = l.Unfreeze(s.ctx, admin)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.False(l.IsFrozen())
	})

	s.Run("freeze requires the freezable flag", func() {
		cfg := defaultConfig()
		cfg.Freezable = false
		l := s.newLedger(cfg, nil)
		l.Core().Table.Seed(id.CapabilityFreezeController, admin)
		err := l.Freeze(s.ctx, admin)
		s.True(dErrors.HasCode(err, dErrors.CodeFeatureDisabled))
	})

	s.Run("freeze requires the freeze controller", func() {
		l := s.newLedger(defaultConfig(), nil)
		err := l.Freeze(s.ctx, alice)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *FungibleLedgerSuite) TestValidatorGating() {
	s.Run("rejection unwinds everything", func() {
		v := &scriptedValidator{transferErr: errors.New("counterparty sanctioned")}
		l := s.newLedger(defaultConfig(), v)
		s.Require().NoError(l.Mint(s.ctx, admin, alice, 100))

		err := l.Transfer(s.ctx, alice, bob, 40)
		s.True(dErrors.HasCode(err, dErrors.CodeValidationRejected))
		s.Equal(uint64(100), l.BalanceOf(alice))
		s.Zero(l.BalanceOf(bob))
		s.Equal(uint64(100), l.TotalSupply())
		// Only the mint event exists; the rejected transfer emitted nothing.
		s.Len(s.publisher.Events(), 1)
	})

	s.Run("approval is dispatched through the gateway", func() {
		v := &scriptedValidator{approvalErr: errors.New("no delegation allowed")}
		l := s.newLedger(defaultConfig(), v)
		err := l.Approve(s.ctx, alice, bob, 10)
		s.True(dErrors.HasCode(err, dErrors.CodeValidationRejected))
		s.Zero(l.Allowance(alice, bob))
	})

	s.Run("hostile validator callback fails reentrant without deadlock", func() {
		l := s.newLedger(defaultConfig(), nil)
		var callbackErr error
		hostile := &scriptedValidator{
			onTransfer: func(ctx context.Context, _ validator.Call) error {
				// Attempt a mutation mid-validation.
				callbackErr = l.Transfer(ctx, alice, carol, 1)
				return nil
			},
		}
		l.Core().Gateway.Install(hostile, "hostile")

		s.Require().NoError(l.Mint(s.ctx, admin, alice, 100))
		s.Require().NoError(l.Transfer(s.ctx, alice, bob, 40))

		s.True(dErrors.HasCode(callbackErr, dErrors.CodeReentrant))
		s.Equal(uint64(60), l.BalanceOf(alice))
		s.Equal(uint64(40), l.BalanceOf(bob))
		s.Zero(l.BalanceOf(carol))
	})
}

func (s *FungibleLedgerSuite) TestGenesisMint() {
	s.Run("owner seeds a non-mintable asset through the gateway", func() {
		cfg := defaultConfig()
		cfg.Mintable = false
		v := &scriptedValidator{}
		l := s.newLedger(cfg, v)

		s.Require().NoError(l.GenesisMint(s.ctx, admin, alice, 1_000))
		s.Equal(uint64(1_000), l.BalanceOf(alice))
		s.Equal(uint64(1_000), l.TotalSupply())
	})

	s.Run("validator rejection blocks genesis", func() {
		v := &scriptedValidator{mintErr: errors.New("holder restricted")}
		l := s.newLedger(defaultConfig(), v)
		err := l.GenesisMint(s.ctx, admin, alice, 1_000)
		s.True(dErrors.HasCode(err, dErrors.CodeValidationRejected))
		s.Zero(l.TotalSupply())
	})

	s.Run("one-shot once supply exists", func() {
		l := s.newLedger(defaultConfig(), nil)
		s.Require().NoError(l.GenesisMint(s.ctx, admin, alice, 10))
		err := l.GenesisMint(s.ctx, admin, alice, 10)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("requires owner", func() {
		l := s.newLedger(defaultConfig(), nil)
		err := l.GenesisMint(s.ctx, alice, alice, 10)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
