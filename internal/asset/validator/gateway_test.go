package validator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"assetgate/internal/asset/capability"
	"assetgate/internal/asset/guard"
	"assetgate/internal/events"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

const (
	owner = id.Address("owner")
	alice = id.Address("alice")
	bob   = id.Address("bob")
)

// stubValidator drives every hook from one function.
type stubValidator struct {
	fn func(ctx context.Context, call Call) error
}

func (v *stubValidator) OnMint(ctx context.Context, call Call) error     { return v.fn(ctx, call) }
func (v *stubValidator) OnTransfer(ctx context.Context, call Call) error { return v.fn(ctx, call) }
func (v *stubValidator) OnBurn(ctx context.Context, call Call) error     { return v.fn(ctx, call) }
func (v *stubValidator) OnApproval(ctx context.Context, call Call) error { return v.fn(ctx, call) }
func (v *stubValidator) IsRestricted(context.Context, id.Address) (bool, error) {
	return false, nil
}

func allow() *stubValidator {
	return &stubValidator{fn: func(context.Context, Call) error { return nil }}
}

type GatewaySuite struct {
	suite.Suite
	ctx       context.Context
	guard     *guard.Guard
	table     *capability.Table
	publisher *events.Memory
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	s.ctx = context.Background()
	s.guard = guard.New()
	s.publisher = events.NewMemory()
	emitter := events.NewEmitter(s.publisher, nil)
	s.table = capability.NewTable(id.NewAssetID(), s.guard, emitter)
	s.table.Seed(id.CapabilityOwner, owner)
}

func (s *GatewaySuite) newGateway(opts ...Option) *Gateway {
	return NewGateway(id.NewAssetID(), s.guard, s.table, events.NewEmitter(s.publisher, nil), opts...)
}

func (s *GatewaySuite) TestValidate() {
	call := Call{Operator: alice, From: alice, To: bob, Amount: 10}

	s.Run("empty slot allows immediately", func() {
		g := s.newGateway()
		s.NoError(g.Validate(s.ctx, id.ClassificationTransfer, call))
	})

	s.Run("validator error becomes a rejection", func() {
		g := s.newGateway()
		g.Install(&stubValidator{fn: func(context.Context, Call) error {
			return errors.New("counterparty sanctioned")
		}}, "strict")

		err := g.Validate(s.ctx, id.ClassificationTransfer, call)
		s.True(dErrors.HasCode(err, dErrors.CodeValidationRejected))
		s.Contains(err.Error(), "counterparty sanctioned")
	})

	s.Run("panic becomes an abort", func() {
		g := s.newGateway()
		g.Install(&stubValidator{fn: func(context.Context, Call) error {
			panic("boom")
		}}, "broken")

		err := g.Validate(s.ctx, id.ClassificationMint, call)
		s.True(dErrors.HasCode(err, dErrors.CodeValidationAborted))
	})

	s.Run("budget exhaustion becomes an abort", func() {
		g := s.newGateway(WithBudget(10 * time.Millisecond))
		g.Install(&stubValidator{fn: func(ctx context.Context, _ Call) error {
			<-ctx.Done()
			return ctx.Err()
		}}, "slow")

		start := time.Now()
		err := g.Validate(s.ctx, id.ClassificationBurn, call)
		s.True(dErrors.HasCode(err, dErrors.CodeValidationAborted))
		s.Less(time.Since(start), time.Second)
	})

	s.Run("dispatch routes by classification", func() {
		g := s.newGateway()
		var seen []id.Classification
		for _, classification := range []id.Classification{
			id.ClassificationMint,
			id.ClassificationTransfer,
			id.ClassificationBurn,
			id.ClassificationApproval,
		} {
			target := classification
			g.Install(&stubValidator{fn: func(context.Context, Call) error {
				seen = append(seen, target)
				return nil
			}}, "recording")
			s.NoError(g.Validate(s.ctx, classification, call))
		}
		s.Equal([]id.Classification{
			id.ClassificationMint,
			id.ClassificationTransfer,
			id.ClassificationBurn,
			id.ClassificationApproval,
		}, seen)
	})
}

func (s *GatewaySuite) TestReplace() {
	s.Run("owner swaps the slot and the event names both", func() {
		g := s.newGateway()
		g.Install(allow(), "denylist")

		s.Require().NoError(g.Replace(s.ctx, owner, allow(), "allowlist"))
		s.Equal("allowlist", g.CurrentName())

		evts := s.publisher.Events()
		s.Require().Len(evts, 1)
		s.Equal(events.ActionValidatorReplaced, evts[0].Action)
		s.Equal(owner, evts[0].Actor)
		s.Equal("denylist", evts[0].OldValidator)
		s.Equal("allowlist", evts[0].NewValidator)
	})

	s.Run("nil clears the slot back to default-allow", func() {
		g := s.newGateway()
		g.Install(allow(), "denylist")

		s.Require().NoError(g.Replace(s.ctx, owner, nil, ""))
		_, ok := g.Current()
		s.False(ok)
		s.Equal("none", g.CurrentName())
		s.NoError(g.Validate(s.ctx, id.ClassificationTransfer, Call{Operator: alice, From: alice, To: bob}))
	})

	s.Run("non-owner is unauthorized", func() {
		g := s.newGateway()
		err := g.Replace(s.ctx, alice, allow(), "mine")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("guarded against in-flight mutations", func() {
		g := s.newGateway()
		s.Require().NoError(s.guard.Enter())
		defer s.guard.Exit()

		err := g.Replace(s.ctx, owner, allow(), "swap")
		s.True(dErrors.HasCode(err, dErrors.CodeReentrant))
	})
}

func (s *GatewaySuite) TestCurrent() {
	s.Run("empty slot", func() {
		g := s.newGateway()
		v, ok := g.Current()
		s.Nil(v)
		s.False(ok)
		s.Equal("none", g.CurrentName())
	})

	s.Run("installed slot", func() {
		g := s.newGateway()
		installed := allow()
		g.Install(installed, "denylist")

		v, ok := g.Current()
		s.True(ok)
		s.Same(installed, v)
		s.Equal("denylist", g.CurrentName())
	})
}
