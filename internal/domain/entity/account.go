package entity

import (
	"encoding/json"
	"time"
)

// ScanMetadata describes one scan invocation. ScannedAt is the only field
// expected to differ between two scans of an unchanged account.
type ScanMetadata struct {
	AccountID     string    `json:"account_id"`
	ScannedAt     time.Time `json:"scanned_at"`
	ToolVersion   string    `json:"tool_version,omitempty"`
	Regions       []string  `json:"regions_scanned"`
	ExcludedTypes []string  `json:"excluded_types,omitempty"`
}

// ResourceGroup is a flat bag of resource sequences keyed by resource-type
// token, used for the global scope and each region's region_wide scope.
// A key is present iff its collector ran and returned records (possibly
// zero of them); excluded or hard-failed collectors leave no key.
type ResourceGroup struct {
	Resources map[string][]Resource
	Errors    map[string]CollectionError
}

// NewResourceGroup returns an empty group ready to receive collector output.
func NewResourceGroup() *ResourceGroup {
	return &ResourceGroup{
		Resources: make(map[string][]Resource),
		Errors:    make(map[string]CollectionError),
	}
}

// Add records a collected sequence under its type key. A nil slice is
// stored as an empty one so "collected nothing" serializes as [].
func (g *ResourceGroup) Add(key string, resources []Resource) {
	if resources == nil {
		resources = []Resource{}
	}
	g.Resources[key] = resources
}

// RecordError stores the error placeholder for a collector that ended
// partial or failed.
func (g *ResourceGroup) RecordError(key string, cerr CollectionError) {
	g.Errors[key] = cerr
}

// MarshalJSON flattens the resource map into the group node itself, with
// collection_errors alongside when any collector misbehaved.
func (g *ResourceGroup) MarshalJSON() ([]byte, error) {
	node := make(map[string]interface{}, len(g.Resources)+1)
	for key, resources := range g.Resources {
		node[key] = resources
	}
	if len(g.Errors) > 0 {
		node["collection_errors"] = g.Errors
	}
	return json.Marshal(node)
}

// Account is the root of the inventory document: global resources plus one
// RegionReport per scanned region.
type Account struct {
	Metadata        ScanMetadata
	GlobalResources *ResourceGroup
	Regions         map[string]*RegionReport
}

// NewAccount returns an Account with empty, non-nil containers.
func NewAccount(meta ScanMetadata) *Account {
	return &Account{
		Metadata:        meta,
		GlobalResources: NewResourceGroup(),
		Regions:         make(map[string]*RegionReport),
	}
}

// MarshalJSON emits the documented top-level shape: scan_metadata,
// global_resources, and one key per region. Region identifiers never
// collide with the two fixed keys.
func (a *Account) MarshalJSON() ([]byte, error) {
	node := make(map[string]interface{}, len(a.Regions)+2)
	node["scan_metadata"] = a.Metadata
	node["global_resources"] = a.GlobalResources
	for region, report := range a.Regions {
		node[region] = report
	}
	return json.Marshal(node)
}
