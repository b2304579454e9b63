package entity

// RDSInstance is a relational database instance.
type RDSInstance struct {
	DBInstanceID       string `json:"db_instance_id"`
	Engine             string `json:"engine"`
	InstanceClass      string `json:"instance_class,omitempty"`
	MultiAZ            bool   `json:"multi_az"`
	AllocatedStorageGB int64  `json:"allocated_storage_gb"`
	Region             string `json:"region"`
}

func (d RDSInstance) ResourceID() string { return d.DBInstanceID }
func (d RDSInstance) Capacity() Capacity { return Capacity{AllocatedGB: d.AllocatedStorageGB} }

// RDSCluster is an Aurora-style database cluster; member instances are
// reported separately as RDSInstance entities.
type RDSCluster struct {
	ClusterID          string   `json:"cluster_id"`
	Engine             string   `json:"engine"`
	Members            []string `json:"cluster_members,omitempty"`
	AllocatedStorageGB int64    `json:"allocated_storage_gb,omitempty"`
	Region             string   `json:"region"`
}

func (c RDSCluster) ResourceID() string { return c.ClusterID }
func (c RDSCluster) Capacity() Capacity { return Capacity{AllocatedGB: c.AllocatedStorageGB} }

// RedshiftCluster is an analytic warehouse cluster.
type RedshiftCluster struct {
	ClusterID     string `json:"cluster_identifier"`
	NodeType      string `json:"node_type,omitempty"`
	NodeCount     int64  `json:"number_of_nodes"`
	ClusterStatus string `json:"cluster_status,omitempty"`
	SizeBytes     int64  `json:"size_bytes,omitempty"`
	Region        string `json:"region"`
}

func (c RedshiftCluster) ResourceID() string { return c.ClusterID }
func (c RedshiftCluster) Capacity() Capacity { return Capacity{SizeBytes: c.SizeBytes} }
