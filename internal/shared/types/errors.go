package types

import "errors"

var (
	ErrNoCredentials = errors.New("unable to resolve AWS credentials; configure the AWS CLI, environment variables, or an instance role first")
	ErrNoRegions     = errors.New("no enabled regions discovered and none were specified")
)
