package entity

// Resource type tokens used as map keys throughout the inventory document.
// They double as the exclusion tokens accepted on the command line.
const (
	TypeS3Buckets        = "s3_buckets"
	TypeDynamoDBTables   = "dynamodb_tables"
	TypeLogGroups        = "cloudwatch_log_groups"
	TypeLambdaFunctions  = "lambda_functions"
	TypeEC2Instances     = "ec2_instances"
	TypeEBSVolumes       = "ebs_volumes"
	TypeRDSInstances     = "rds_instances"
	TypeRDSClusters      = "rds_clusters"
	TypeEFSFileSystems   = "efs_filesystems"
	TypeFSxFileSystems   = "fsx_filesystems"
	TypeRedshiftClusters = "redshift_clusters"
	TypeSubnets          = "subnets"
	TypeRouteTables      = "route_tables"
	TypeInternetGateways = "internet_gateways"
	TypeNatGateways      = "nat_gateways"
	TypeLoadBalancers    = "load_balancers"
	TypeSecurityGroups   = "security_groups"
)

// CollectionStatus reports how a collector run ended.
type CollectionStatus string

const (
	StatusComplete CollectionStatus = "complete"
	StatusPartial  CollectionStatus = "partial"
	StatusFailed   CollectionStatus = "failed"
)

// ErrorKind is the coarse error taxonomy recorded next to a failed or
// partial collection.
type ErrorKind string

const (
	ErrAccessDenied       ErrorKind = "access_denied"
	ErrNotEnabled         ErrorKind = "not_enabled"
	ErrThrottled          ErrorKind = "throttled"
	ErrPartialPagination  ErrorKind = "partial_pagination"
	ErrMetricsUnavailable ErrorKind = "metrics_unavailable"
	ErrUnknown            ErrorKind = "unknown"
)

// CollectionError is the placeholder written into a scope's
// collection_errors map when a collector did not finish cleanly. A
// "partial" status means records were kept and the error explains what
// is missing; "failed" means the data key is absent entirely.
type CollectionError struct {
	Status  CollectionStatus `json:"status"`
	Kind    ErrorKind        `json:"kind,omitempty"`
	Message string           `json:"error"`
}

// ClassifiedError tags an underlying API error with its taxonomy kind so
// callers above the AWS adapter can record it without inspecting SDK types.
type ClassifiedError struct {
	Kind ErrorKind
	Err  error
}

func (e *ClassifiedError) Error() string { return e.Err.Error() }
func (e *ClassifiedError) Unwrap() error { return e.Err }

// Capacity carries the sizing metrics a resource contributes to the
// account summary. Zero values mean the resource has no such metric.
type Capacity struct {
	SizeBytes   int64
	AllocatedGB int64
	Objects     int64
}

// Resource is the common shape of every discovered entity. Concrete
// resource structs keep their type-specific fields flat for JSON output
// and expose identity and capacity through this interface for the
// summary reducer.
type Resource interface {
	ResourceID() string
	Capacity() Capacity
}
