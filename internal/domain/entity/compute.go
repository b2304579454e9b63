package entity

import "encoding/json"

// EBSVolume is a block volume attached to an EC2 instance. SizeGB may be
// zero when the volume detail lookup failed; the attachment itself is
// still reported.
type EBSVolume struct {
	VolumeID            string `json:"volume_id"`
	DeviceName          string `json:"device_name,omitempty"`
	SizeGB              int64  `json:"size_gb,omitempty"`
	VolumeType          string `json:"volume_type,omitempty"`
	IOPS                int64  `json:"iops,omitempty"`
	Encrypted           bool   `json:"encrypted"`
	DeleteOnTermination bool   `json:"delete_on_termination"`
	State               string `json:"state,omitempty"`
}

func (v EBSVolume) ResourceID() string { return v.VolumeID }
func (v EBSVolume) Capacity() Capacity { return Capacity{AllocatedGB: v.SizeGB} }

// EC2Instance is a compute instance with its attached volumes nested. The
// instance itself carries no capacity metric; storage sizing comes from
// the nested volumes. Volumes is nil when the volume type was excluded
// from the scan, and non-nil (possibly empty) when it was collected.
type EC2Instance struct {
	InstanceID   string            `json:"instance_id"`
	InstanceType string            `json:"instance_type"`
	State        string            `json:"state"`
	SubnetID     string            `json:"subnet_id,omitempty"`
	Region       string            `json:"region"`
	Tags         map[string]string `json:"tags,omitempty"`
	Volumes      []EBSVolume       `json:"-"`
}

func (i EC2Instance) ResourceID() string { return i.InstanceID }
func (i EC2Instance) Capacity() Capacity { return Capacity{} }

// MarshalJSON emits ebs_volumes only when the volumes were collected, so
// an excluded volume type leaves no key at this nesting level either.
func (i EC2Instance) MarshalJSON() ([]byte, error) {
	type instanceNode struct {
		InstanceID   string            `json:"instance_id"`
		InstanceType string            `json:"instance_type"`
		State        string            `json:"state"`
		SubnetID     string            `json:"subnet_id,omitempty"`
		Region       string            `json:"region"`
		Tags         map[string]string `json:"tags,omitempty"`
		Volumes      *[]EBSVolume      `json:"ebs_volumes,omitempty"`
	}
	node := instanceNode{
		InstanceID:   i.InstanceID,
		InstanceType: i.InstanceType,
		State:        i.State,
		SubnetID:     i.SubnetID,
		Region:       i.Region,
		Tags:         i.Tags,
	}
	if i.Volumes != nil {
		node.Volumes = &i.Volumes
	}
	return json.Marshal(node)
}

// LambdaFunction is a deployed function; its code size contributes to the
// account's storage footprint.
type LambdaFunction struct {
	FunctionName  string `json:"function_name"`
	Runtime       string `json:"runtime,omitempty"`
	MemoryMB      int64  `json:"memory_mb,omitempty"`
	CodeSizeBytes int64  `json:"code_size_bytes"`
	Region        string `json:"region"`
}

func (f LambdaFunction) ResourceID() string { return f.FunctionName }
func (f LambdaFunction) Capacity() Capacity { return Capacity{SizeBytes: f.CodeSizeBytes} }
