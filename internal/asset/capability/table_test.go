package capability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"assetgate/internal/asset/guard"
	"assetgate/internal/events"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

const (
	owner = id.Address("owner")
	alice = id.Address("alice")
)

type TableSuite struct {
	suite.Suite
	ctx       context.Context
	guard     *guard.Guard
	publisher *events.Memory
	table     *Table
}

func TestTableSuite(t *testing.T) {
	suite.Run(t, new(TableSuite))
}

func (s *TableSuite) SetupTest() {
	s.ctx = context.Background()
	s.guard = guard.New()
	s.publisher = events.NewMemory()
	s.table = NewTable(id.NewAssetID(), s.guard, events.NewEmitter(s.publisher, nil))
	s.table.Seed(id.CapabilityOwner, owner)
}

func (s *TableSuite) TestSeed() {
	s.Run("seeded grant is visible without events", func() {
		s.True(s.table.Has(id.CapabilityOwner, owner))
		s.Empty(s.publisher.Events())
	})

	s.Run("unseeded holder has nothing", func() {
		s.False(s.table.Has(id.CapabilityIssuer, alice))
	})
}

func (s *TableSuite) TestGrant() {
	s.Run("owner grants and the event records it", func() {
		s.Require().NoError(s.table.Grant(s.ctx, owner, id.CapabilityIssuer, alice))
		s.True(s.table.Has(id.CapabilityIssuer, alice))

		evts := s.publisher.Events()
		s.Require().Len(evts, 1)
		s.Equal(events.ActionCapabilityChanged, evts[0].Action)
		s.Equal(owner, evts[0].Actor)
		s.Equal(id.CapabilityIssuer, evts[0].Capability)
		s.Equal(alice, evts[0].Holder)
		s.True(evts[0].Granted)
	})

	s.Run("non-owner is unauthorized", func() {
		bob := id.Address("bob")
		err := s.table.Grant(s.ctx, alice, id.CapabilityIssuer, bob)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.False(s.table.Has(id.CapabilityIssuer, bob))
	})

	s.Run("invalid capability kind", func() {
		err := s.table.Grant(s.ctx, owner, id.Capability("superuser"), alice)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("null holder", func() {
		err := s.table.Grant(s.ctx, owner, id.CapabilityIssuer, id.NullHolder)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("owner may grant owner to another holder", func() {
		s.Require().NoError(s.table.Grant(s.ctx, owner, id.CapabilityOwner, alice))
		s.Require().NoError(s.table.Grant(s.ctx, alice, id.CapabilityIssuer, alice))
		s.True(s.table.Has(id.CapabilityIssuer, alice))
	})
}

func (s *TableSuite) TestRevoke() {
	s.Run("revoke removes the grant", func() {
		s.Require().NoError(s.table.Grant(s.ctx, owner, id.CapabilityIssuer, alice))
		s.Require().NoError(s.table.Revoke(s.ctx, owner, id.CapabilityIssuer, alice))
		s.False(s.table.Has(id.CapabilityIssuer, alice))

		evts := s.publisher.Events()
		s.Require().Len(evts, 2)
		s.False(evts[1].Granted)
	})

	s.Run("revoking a missing grant succeeds", func() {
		s.NoError(s.table.Revoke(s.ctx, owner, id.CapabilityIssuer, alice))
	})

	s.Run("owner may revoke their own ownership", func() {
		s.Require().NoError(s.table.Revoke(s.ctx, owner, id.CapabilityOwner, owner))
		err := s.table.Grant(s.ctx, owner, id.CapabilityIssuer, alice)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *TableSuite) TestGuardCoverage() {
	s.Run("mutation in flight blocks changes", func() {
		s.Require().NoError(s.guard.Enter())
		defer s.guard.Exit()

		err := s.table.Grant(s.ctx, owner, id.CapabilityIssuer, alice)
		s.True(dErrors.HasCode(err, dErrors.CodeReentrant))
		err = s.table.Revoke(s.ctx, owner, id.CapabilityOwner, owner)
		s.True(dErrors.HasCode(err, dErrors.CodeReentrant))
	})

	s.Run("reads are never guarded", func() {
		s.Require().NoError(s.guard.Enter())
		defer s.guard.Exit()
		s.True(s.table.Has(id.CapabilityOwner, owner))
	})
}
