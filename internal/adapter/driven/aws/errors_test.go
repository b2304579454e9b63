package aws

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "denied"}
}

func TestClassifyErrorMapsAPICodes(t *testing.T) {
	tests := []struct {
		code string
		want entity.ErrorKind
	}{
		{"AccessDenied", entity.ErrAccessDenied},
		{"AccessDeniedException", entity.ErrAccessDenied},
		{"UnauthorizedOperation", entity.ErrAccessDenied},
		{"OptInRequired", entity.ErrNotEnabled},
		{"AuthFailure", entity.ErrNotEnabled},
		{"SubscriptionRequiredException", entity.ErrNotEnabled},
		{"Throttling", entity.ErrThrottled},
		{"RequestLimitExceeded", entity.ErrThrottled},
		{"SlowDown", entity.ErrThrottled},
		{"SomethingElse", entity.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(apiError(tt.code)))
		})
	}
}

func TestClassifyErrorSeesWrappedCodes(t *testing.T) {
	err := fmt.Errorf("error listing VPCs: %w", apiError("UnauthorizedOperation"))
	assert.Equal(t, entity.ErrAccessDenied, classifyError(err))
}

func TestClassifyErrorNonAPIErrorIsUnknown(t *testing.T) {
	assert.Equal(t, entity.ErrUnknown, classifyError(errors.New("dial tcp: timeout")))
}

func TestClassifyWrapsIntoClassifiedError(t *testing.T) {
	err := classify(apiError("Throttling"))

	var classified *entity.ClassifiedError
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, entity.ErrThrottled, classified.Kind)

	assert.NoError(t, classify(nil))
}

func TestCollectorResultCompleteWithoutError(t *testing.T) {
	resources := []entity.Resource{entity.Subnet{SubnetID: "subnet-1"}}

	result := collectorResult(resources, nil)
	assert.Equal(t, entity.StatusComplete, result.Status)
	assert.Equal(t, resources, result.Resources)
	assert.NoError(t, result.Err)
}

func TestCollectorResultPartialKeepsTruncatedPrefix(t *testing.T) {
	resources := []entity.Resource{entity.Subnet{SubnetID: "subnet-1"}}

	result := collectorResult(resources, apiError("Throttling"))
	assert.Equal(t, entity.StatusPartial, result.Status)
	assert.Equal(t, entity.ErrPartialPagination, result.ErrorKind)
	assert.Equal(t, resources, result.Resources)
}

func TestCollectorResultFailedWhenNothingFetched(t *testing.T) {
	result := collectorResult(nil, apiError("AccessDenied"))
	assert.Equal(t, entity.StatusFailed, result.Status)
	assert.Equal(t, entity.ErrAccessDenied, result.ErrorKind)
	assert.Empty(t, result.Resources)
}

func TestMetricsUnavailableDowngradesCompleteResult(t *testing.T) {
	resources := []entity.Resource{entity.S3Bucket{Name: "data"}}
	complete := collectorResult(resources, nil)

	result := metricsUnavailable(complete, errors.New("no datapoints"))
	assert.Equal(t, entity.StatusPartial, result.Status)
	assert.Equal(t, entity.ErrMetricsUnavailable, result.ErrorKind)
	assert.Equal(t, resources, result.Resources)
}

func TestMetricsUnavailableLeavesExistingErrorAlone(t *testing.T) {
	partial := collectorResult([]entity.Resource{entity.S3Bucket{Name: "data"}}, apiError("Throttling"))

	result := metricsUnavailable(partial, errors.New("no datapoints"))
	assert.Equal(t, entity.ErrPartialPagination, result.ErrorKind)
}

func TestMetricsUnavailableNoopWithoutError(t *testing.T) {
	complete := collectorResult([]entity.Resource{}, nil)

	result := metricsUnavailable(complete, nil)
	assert.Equal(t, entity.StatusComplete, result.Status)
}
