package entity

import "encoding/json"

// VpcInfo identifies one VPC and the region it belongs to.
type VpcInfo struct {
	VpcID     string            `json:"vpc_id"`
	CidrBlock string            `json:"cidr_block"`
	State     string            `json:"state"`
	IsDefault bool              `json:"is_default"`
	Region    string            `json:"region"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// VpcReport is the merged output of every collector that ran against one
// VPC. SecurityGroups is nil when that collector was excluded or failed
// hard, and non-nil (possibly empty) when it ran.
type VpcReport struct {
	Info              VpcInfo
	NetworkComponents map[string][]Resource
	SecurityGroups    []Resource
	Resources         map[string][]Resource
	Errors            map[string]CollectionError
}

// NewVpcReport returns a report with empty, non-nil maps for the
// structurally mandatory sections.
func NewVpcReport(info VpcInfo) *VpcReport {
	return &VpcReport{
		Info:              info,
		NetworkComponents: make(map[string][]Resource),
		Resources:         make(map[string][]Resource),
		Errors:            make(map[string]CollectionError),
	}
}

// MarshalJSON keeps the fixed vpc node layout while letting excluded keys
// disappear entirely: security_groups is omitted when nil, and the
// resources / network_components maps simply lack excluded entries.
func (v *VpcReport) MarshalJSON() ([]byte, error) {
	node := map[string]interface{}{
		"vpc_info":           v.Info,
		"network_components": v.NetworkComponents,
		"resources":          v.Resources,
	}
	if v.SecurityGroups != nil {
		node["security_groups"] = v.SecurityGroups
	}
	if len(v.Errors) > 0 {
		node["collection_errors"] = v.Errors
	}
	return json.Marshal(node)
}
