package entity

// Network components carry no capacity metrics; they are inventoried for
// topology context around the sized resources.

type Subnet struct {
	SubnetID         string `json:"subnet_id"`
	CidrBlock        string `json:"cidr_block,omitempty"`
	AvailabilityZone string `json:"availability_zone,omitempty"`
	AvailableIPs     int64  `json:"available_ip_count"`
	State            string `json:"state,omitempty"`
	Region           string `json:"region"`
}

func (s Subnet) ResourceID() string { return s.SubnetID }
func (s Subnet) Capacity() Capacity { return Capacity{} }

type RouteTable struct {
	RouteTableID string `json:"route_table_id"`
	RouteCount   int    `json:"route_count"`
	Main         bool   `json:"main"`
	Region       string `json:"region"`
}

func (r RouteTable) ResourceID() string { return r.RouteTableID }
func (r RouteTable) Capacity() Capacity { return Capacity{} }

type InternetGateway struct {
	GatewayID string `json:"gateway_id"`
	State     string `json:"state,omitempty"`
	Region    string `json:"region"`
}

func (g InternetGateway) ResourceID() string { return g.GatewayID }
func (g InternetGateway) Capacity() Capacity { return Capacity{} }

type NatGateway struct {
	GatewayID string `json:"gateway_id"`
	State     string `json:"state,omitempty"`
	SubnetID  string `json:"subnet_id,omitempty"`
	Region    string `json:"region"`
}

func (g NatGateway) ResourceID() string { return g.GatewayID }
func (g NatGateway) Capacity() Capacity { return Capacity{} }

type LoadBalancer struct {
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Scheme string `json:"scheme,omitempty"`
	State  string `json:"state,omitempty"`
	Region string `json:"region"`
}

func (l LoadBalancer) ResourceID() string { return l.Name }
func (l LoadBalancer) Capacity() Capacity { return Capacity{} }

type SecurityGroup struct {
	GroupID      string `json:"group_id"`
	GroupName    string `json:"group_name,omitempty"`
	Description  string `json:"description,omitempty"`
	IngressRules int    `json:"ingress_rule_count"`
	EgressRules  int    `json:"egress_rule_count"`
	Region       string `json:"region"`
}

func (g SecurityGroup) ResourceID() string { return g.GroupID }
func (g SecurityGroup) Capacity() Capacity { return Capacity{} }
