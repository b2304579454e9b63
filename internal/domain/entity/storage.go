package entity

import "time"

// S3Bucket is an object-storage bucket. Size and object count come from
// CloudWatch storage metrics, which lag up to a day; both stay nil when
// the metrics source has nothing yet.
type S3Bucket struct {
	Name        string     `json:"name"`
	Region      string     `json:"region"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	SizeBytes   *int64     `json:"size_bytes,omitempty"`
	ObjectCount *int64     `json:"object_count,omitempty"`
}

func (b S3Bucket) ResourceID() string { return b.Name }

func (b S3Bucket) Capacity() Capacity {
	var c Capacity
	if b.SizeBytes != nil {
		c.SizeBytes = *b.SizeBytes
	}
	if b.ObjectCount != nil {
		c.Objects = *b.ObjectCount
	}
	return c
}

// EFSFileSystem is a shared filesystem, attributed to the VPC its mount
// targets live in.
type EFSFileSystem struct {
	FileSystemID    string `json:"file_system_id"`
	Name            string `json:"name,omitempty"`
	LifeCycleState  string `json:"life_cycle_state"`
	PerformanceMode string `json:"performance_mode,omitempty"`
	Encrypted       bool   `json:"encrypted"`
	SizeBytes       int64  `json:"size_bytes"`
	Region          string `json:"region"`
}

func (f EFSFileSystem) ResourceID() string { return f.FileSystemID }
func (f EFSFileSystem) Capacity() Capacity { return Capacity{SizeBytes: f.SizeBytes} }

// FSxFileSystem is a high-performance filesystem.
type FSxFileSystem struct {
	FileSystemID      string   `json:"file_system_id"`
	FileSystemType    string   `json:"file_system_type"`
	Lifecycle         string   `json:"lifecycle_state"`
	StorageCapacityGB int64    `json:"storage_capacity_gb"`
	SubnetIDs         []string `json:"subnet_ids,omitempty"`
	Region            string   `json:"region"`
}

func (f FSxFileSystem) ResourceID() string { return f.FileSystemID }
func (f FSxFileSystem) Capacity() Capacity { return Capacity{AllocatedGB: f.StorageCapacityGB} }

// DynamoDBTable is a managed key-value table; a region-wide resource.
type DynamoDBTable struct {
	TableName   string `json:"table_name"`
	TableStatus string `json:"table_status,omitempty"`
	BillingMode string `json:"billing_mode,omitempty"`
	ItemCount   int64  `json:"item_count"`
	SizeBytes   int64  `json:"size_bytes"`
	Region      string `json:"region"`
}

func (t DynamoDBTable) ResourceID() string { return t.TableName }

func (t DynamoDBTable) Capacity() Capacity {
	return Capacity{SizeBytes: t.SizeBytes, Objects: t.ItemCount}
}

// LogGroup is a CloudWatch Logs group; stored bytes count toward backup
// capacity planning. RetentionDays zero means never expire.
type LogGroup struct {
	LogGroupName  string `json:"log_group_name"`
	RetentionDays int    `json:"retention_days"`
	StoredBytes   int64  `json:"stored_bytes"`
	Region        string `json:"region"`
}

func (g LogGroup) ResourceID() string { return g.LogGroupName }
func (g LogGroup) Capacity() Capacity { return Capacity{SizeBytes: g.StoredBytes} }
