package repository

import (
	"context"

	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
)

// ScopeKind is the level of the hierarchy a collector runs at.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeRegion
	ScopeVpc
)

// Section tells the VPC aggregator where a collector's output lands
// inside a VpcReport. Global and region-wide collectors always land in
// the resources section.
type Section int

const (
	SectionResources Section = iota
	SectionNetwork
	SectionSecurity
)

// Scope identifies where a collector should look. VpcID is empty for
// global and region-wide collectors. Excluded carries the scan's
// normalized exclusion set so collectors that emit secondary nested
// types (instance volumes) can honor it too.
type Scope struct {
	Region   string
	VpcID    string
	Excluded map[string]bool
}

// CollectorResult is the uniform "entity sequence plus status" outcome of
// one collector run. Resources may be non-empty even when Err is set:
// that is a truncated (partial) result the caller should keep.
type CollectorResult struct {
	Resources []entity.Resource
	Status    entity.CollectionStatus
	ErrorKind entity.ErrorKind
	Err       error
}

// Collector discovers and normalizes one resource type within one scope.
// Implementations must tolerate zero results (a valid, complete outcome)
// and must never let a secondary enrichment failure drop discovered
// entities.
type Collector interface {
	// Key is the resource-type token used as the document map key and as
	// the exclusion token.
	Key() string
	ScopeKind() ScopeKind
	Section() Section
	Collect(ctx context.Context, scope Scope) CollectorResult
}

// InventoryRepository is the driven port for cloud discovery. The
// concrete AWS implementation owns credential resolution and client
// caching; orchestration code sees only scopes, collectors and entities.
type InventoryRepository interface {
	// GetAccountID resolves the caller identity. Failure here means the
	// credential chain is unusable and the whole scan must abort.
	GetAccountID(ctx context.Context) (string, error)

	// GetEnabledRegions lists regions enabled for the account.
	GetEnabledRegions(ctx context.Context) ([]string, error)

	// ListVpcs discovers the VPCs of one region. Errors are wrapped as
	// *entity.ClassifiedError so callers can record the taxonomy kind.
	ListVpcs(ctx context.Context, region string) ([]entity.VpcInfo, error)

	// Collectors returns the full registry; callers filter by scope kind
	// and exclusion set.
	Collectors() []Collector
}
