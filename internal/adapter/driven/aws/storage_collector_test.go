package aws

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3Types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucketLister serves canned bucket pages chained by continuation
// token, optionally failing once the prepared pages run out.
type fakeBucketLister struct {
	pages [][]s3Types.Bucket
	err   error
	calls int
}

func (f *fakeBucketLister) ListBuckets(ctx context.Context, input *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	index := f.calls
	f.calls++
	if index >= len(f.pages) {
		return nil, f.err
	}
	output := &s3.ListBucketsOutput{Buckets: f.pages[index]}
	if index < len(f.pages)-1 || f.err != nil {
		output.ContinuationToken = aws.String(fmt.Sprintf("page-%d", index+1))
	}
	return output, nil
}

func bucket(name string) s3Types.Bucket {
	return s3Types.Bucket{Name: aws.String(name)}
}

func TestListAllBucketsWalksEveryPage(t *testing.T) {
	client := &fakeBucketLister{
		pages: [][]s3Types.Bucket{
			{bucket("alpha"), bucket("beta")},
			{bucket("gamma")},
		},
	}

	buckets, err := listAllBuckets(context.Background(), client)
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	assert.Equal(t, "alpha", aws.ToString(buckets[0].Name))
	assert.Equal(t, "gamma", aws.ToString(buckets[2].Name))
	assert.Equal(t, 2, client.calls)
}

func TestListAllBucketsKeepsPrefixOnMidListingFailure(t *testing.T) {
	client := &fakeBucketLister{
		pages: [][]s3Types.Bucket{{bucket("alpha"), bucket("beta")}},
		err:   errors.New("SlowDown"),
	}

	buckets, err := listAllBuckets(context.Background(), client)
	require.Error(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "alpha", aws.ToString(buckets[0].Name))
}

func TestNewestDatapointIgnoresMissingTimestamps(t *testing.T) {
	older := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)
	points := []cwTypes.Datapoint{
		{Average: aws.Float64(1)},
		{Timestamp: aws.Time(newer), Average: aws.Float64(3)},
		{Timestamp: aws.Time(older), Average: aws.Float64(2)},
	}

	assert.Equal(t, 3.0, aws.ToFloat64(newestDatapoint(points).Average))
}

func TestNewestDatapointSurvivesAllMissingTimestamps(t *testing.T) {
	points := []cwTypes.Datapoint{
		{Average: aws.Float64(7)},
		{Average: aws.Float64(9)},
	}

	assert.Equal(t, 7.0, aws.ToFloat64(newestDatapoint(points).Average))
}
