package entity

import "encoding/json"

// RegionReport groups everything discovered in one region: a VpcReport per
// VPC plus region-wide resources that live outside any VPC. Error is set
// only when the region as a whole was inaccessible; per-collector problems
// are recorded inside the VPC and region_wide nodes instead.
type RegionReport struct {
	Region     string
	Vpcs       map[string]*VpcReport
	RegionWide *ResourceGroup
	Error      *CollectionError
}

// NewRegionReport returns a report with empty, non-nil containers. A region
// with zero VPCs keeps its empty VPC map rather than dropping it.
func NewRegionReport(region string) *RegionReport {
	return &RegionReport{
		Region:     region,
		Vpcs:       make(map[string]*VpcReport),
		RegionWide: NewResourceGroup(),
	}
}

// MarshalJSON places each VPC report under its VPC identifier, mirroring
// the shape downstream tooling consumes, with region_wide alongside.
func (r *RegionReport) MarshalJSON() ([]byte, error) {
	node := make(map[string]interface{}, len(r.Vpcs)+2)
	for vpcID, report := range r.Vpcs {
		node[vpcID] = report
	}
	node["region_wide"] = r.RegionWide
	if r.Error != nil {
		node["region_error"] = r.Error
	}
	return json.Marshal(node)
}
