package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"assetgate/internal/asset/validator"
	"assetgate/internal/events"
	"assetgate/internal/issuance/models"
	"assetgate/internal/issuance/store"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

const (
	admin = id.Address("admin")
	alice = id.Address("alice")
)

type rejectAll struct{ err error }

func (v *rejectAll) OnMint(context.Context, validator.Call) error     { return v.err }
func (v *rejectAll) OnTransfer(context.Context, validator.Call) error { return v.err }
func (v *rejectAll) OnBurn(context.Context, validator.Call) error     { return v.err }
func (v *rejectAll) OnApproval(context.Context, validator.Call) error { return v.err }
func (v *rejectAll) IsRestricted(context.Context, id.Address) (bool, error) {
	return false, nil
}

type EngineSuite struct {
	suite.Suite
	ctx       context.Context
	registry  *store.MemoryStore
	publisher *events.Memory
	engine    *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctx = context.Background()
	s.registry = store.NewMemory()
	s.publisher = events.NewMemory()
	s.engine = NewEngine("test-origin", s.registry, WithPublisher(s.publisher))
}

func fungibleConfig() models.IssuanceConfig {
	return models.IssuanceConfig{
		Kind:          id.AssetKindFungible,
		Name:          "Test Coin",
		Symbol:        "TST",
		Decimals:      6,
		Mintable:      true,
		Burnable:      true,
		Freezable:     true,
		Admin:         admin,
		InitialSupply: 1_000,
		InitialHolder: alice,
	}
}

func (s *EngineSuite) TestIssue() {
	s.Run("fungible asset with genesis supply", func() {
		asset, err := s.engine.Issue(s.ctx, fungibleConfig(), nil, "")
		s.Require().NoError(err)
		s.Require().NotNil(asset.Fungible)
		s.Nil(asset.Unique)
		s.Nil(asset.Multi)

		s.Equal(uint64(1_000), asset.Fungible.BalanceOf(alice))
		s.Equal("test-origin", asset.Record.IssuerOrigin)
		s.False(asset.Record.ID.IsZero())

		record, err := s.registry.FindByID(s.ctx, asset.Record.ID)
		s.Require().NoError(err)
		s.Equal(id.AssetKindFungible, record.Kind)
	})

	s.Run("name and symbol are trimmed", func() {
		cfg := fungibleConfig()
		cfg.Name = "  Padded Coin  "
		cfg.Symbol = " PAD "
		asset, err := s.engine.Issue(s.ctx, cfg, nil, "")
		s.Require().NoError(err)
		s.Equal("Padded Coin", asset.Record.Name)
		s.Equal("PAD", asset.Record.Symbol)
	})

	s.Run("unique asset seeds identifier range", func() {
		cfg := models.IssuanceConfig{
			Kind:          id.AssetKindUnique,
			Name:          "Collection",
			Symbol:        "COL",
			Mintable:      true,
			Admin:         admin,
			InitialSupply: 3,
			InitialHolder: alice,
			BaseURI:       "https://meta.example/",
		}
		asset, err := s.engine.Issue(s.ctx, cfg, nil, "")
		s.Require().NoError(err)
		s.Require().NotNil(asset.Unique)
		s.Equal(uint64(3), asset.Unique.NextID())
		s.Equal(alice, asset.Unique.OwnerOf(2))
	})

	s.Run("multi-balance asset seeds type zero", func() {
		cfg := models.IssuanceConfig{
			Kind:          id.AssetKindMultiBalance,
			Name:          "Multi",
			Symbol:        "MUL",
			Mintable:      true,
			Admin:         admin,
			InitialSupply: 500,
			InitialHolder: alice,
		}
		asset, err := s.engine.Issue(s.ctx, cfg, nil, "")
		s.Require().NoError(err)
		s.Require().NotNil(asset.Multi)
		s.Equal(uint64(500), asset.Multi.BalanceOf(alice, 0))
	})

	s.Run("zero supply skips the genesis mint", func() {
		cfg := fungibleConfig()
		cfg.InitialSupply = 0
		cfg.InitialHolder = id.NullHolder
		asset, err := s.engine.Issue(s.ctx, cfg, nil, "")
		s.Require().NoError(err)
		s.Zero(asset.Fungible.TotalSupply())
	})

	s.Run("invalid kind", func() {
		cfg := fungibleConfig()
		cfg.Kind = id.AssetKind("exotic")
		_, err := s.engine.Issue(s.ctx, cfg, nil, "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("decimals on non-fungible kinds rejected", func() {
		cfg := models.IssuanceConfig{
			Kind:     id.AssetKindUnique,
			Name:     "Collection",
			Symbol:   "COL",
			Decimals: 2,
			Admin:    admin,
		}
		_, err := s.engine.Issue(s.ctx, cfg, nil, "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *EngineSuite) TestCapabilitySeeding() {
	s.Run("full-featured fungible asset", func() {
		asset, err := s.engine.Issue(s.ctx, fungibleConfig(), nil, "")
		s.Require().NoError(err)

		table := asset.Core().Table
		s.True(table.Has(id.CapabilityOwner, admin))
		s.True(table.Has(id.CapabilityIssuer, admin))
		s.True(table.Has(id.CapabilityFreezeController, admin))
		s.False(table.Has(id.CapabilityMetadataController, admin))
	})

	s.Run("fixed-supply asset gets no issuer", func() {
		cfg := fungibleConfig()
		cfg.Mintable = false
		cfg.Freezable = false
		asset, err := s.engine.Issue(s.ctx, cfg, nil, "")
		s.Require().NoError(err)

		table := asset.Core().Table
		s.True(table.Has(id.CapabilityOwner, admin))
		s.False(table.Has(id.CapabilityIssuer, admin))
		s.False(table.Has(id.CapabilityFreezeController, admin))
	})

	s.Run("non-fungible kinds get the metadata controller", func() {
		cfg := models.IssuanceConfig{
			Kind:   id.AssetKindUnique,
			Name:   "Collection",
			Symbol: "COL",
			Admin:  admin,
		}
		asset, err := s.engine.Issue(s.ctx, cfg, nil, "")
		s.Require().NoError(err)
		s.True(asset.Core().Table.Has(id.CapabilityMetadataController, admin))
	})
}

func (s *EngineSuite) TestValidatorAtIssuance() {
	s.Run("validator is installed before genesis", func() {
		v := &rejectAll{err: errors.New("holder restricted")}
		_, err := s.engine.Issue(s.ctx, fungibleConfig(), v, "strict")
		s.True(dErrors.HasCode(err, dErrors.CodeValidationRejected))

		// Nothing was cataloged.
		records, listErr := s.engine.List(s.ctx)
		s.Require().NoError(listErr)
		s.Empty(records)
	})

	s.Run("permissive validator is installed and named", func() {
		v := &rejectAll{}
		asset, err := s.engine.Issue(s.ctx, fungibleConfig(), v, "denylist")
		s.Require().NoError(err)
		s.Equal("denylist", asset.Core().Gateway.CurrentName())
	})
}

func (s *EngineSuite) TestLookups() {
	s.Run("get returns the live asset", func() {
		issued, err := s.engine.Issue(s.ctx, fungibleConfig(), nil, "")
		s.Require().NoError(err)

		got, err := s.engine.Get(issued.Record.ID)
		s.Require().NoError(err)
		s.Same(issued, got)
	})

	s.Run("get unknown asset", func() {
		_, err := s.engine.Get(id.NewAssetID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("describe reads the catalog", func() {
		issued, err := s.engine.Issue(s.ctx, fungibleConfig(), nil, "")
		s.Require().NoError(err)

		record, err := s.engine.Describe(s.ctx, issued.Record.ID)
		s.Require().NoError(err)
		s.Equal(issued.Record.ID, record.ID)
	})

	s.Run("describe unknown asset", func() {
		_, err := s.engine.Describe(s.ctx, id.NewAssetID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("list preserves issuance order", func() {
		// Earlier subtests issued into the shared engine; use a fresh one
		// so the catalog holds exactly these two records.
		engine := NewEngine("test-origin", store.NewMemory(), WithPublisher(events.NewMemory()))
		first, err := engine.Issue(s.ctx, fungibleConfig(), nil, "")
		s.Require().NoError(err)
		second, err := engine.Issue(s.ctx, fungibleConfig(), nil, "")
		s.Require().NoError(err)

		records, err := engine.List(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(records, 2)
		s.Equal(first.Record.ID, records[0].ID)
		s.Equal(second.Record.ID, records[1].ID)
	})
}

func (s *EngineSuite) TestIssuedEvent() {
	asset, err := s.engine.Issue(s.ctx, fungibleConfig(), nil, "")
	s.Require().NoError(err)

	evts := s.publisher.Events()
	s.Require().NotEmpty(evts)
	last := evts[len(evts)-1]
	s.Equal(events.ActionAssetIssued, last.Action)
	s.Equal(asset.Record.ID, last.AssetID)
	s.Equal(admin, last.Actor)
}
