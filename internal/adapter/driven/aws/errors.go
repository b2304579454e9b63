package aws

import (
	"errors"

	"github.com/aws/smithy-go"
	"github.com/cloudrange/aws-inventory-go/internal/domain/entity"
	"github.com/cloudrange/aws-inventory-go/internal/domain/repository"
)

// classifyError maps an API error onto the collection error taxonomy.
// Throttling shows up here only after the SDK retryer gave up.
func classifyError(err error) entity.ErrorKind {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return entity.ErrUnknown
	}

	switch apiErr.ErrorCode() {
	case "AccessDenied", "AccessDeniedException", "UnauthorizedOperation", "UnauthorizedAccess", "AuthorizationError":
		return entity.ErrAccessDenied
	case "OptInRequired", "AuthFailure", "SubscriptionRequiredException", "InvalidClientTokenId":
		return entity.ErrNotEnabled
	case "Throttling", "ThrottlingException", "RequestLimitExceeded", "TooManyRequestsException", "SlowDown":
		return entity.ErrThrottled
	}
	return entity.ErrUnknown
}

// classify wraps err so callers outside this package can recover the
// taxonomy kind without depending on smithy types.
func classify(err error) error {
	if err == nil {
		return nil
	}
	return &entity.ClassifiedError{Kind: classifyError(err), Err: err}
}

// collectorResult folds a fetched sequence and its terminal error into the
// uniform collector outcome: clean completion, a truncated prefix worth
// keeping, or a hard failure with nothing to show.
func collectorResult(resources []entity.Resource, err error) repository.CollectorResult {
	if err == nil {
		return repository.CollectorResult{Resources: resources, Status: entity.StatusComplete}
	}
	if len(resources) > 0 {
		return repository.CollectorResult{
			Resources: resources,
			Status:    entity.StatusPartial,
			ErrorKind: entity.ErrPartialPagination,
			Err:       err,
		}
	}
	return repository.CollectorResult{
		Status:    entity.StatusFailed,
		ErrorKind: classifyError(err),
		Err:       err,
	}
}

// failedResult is the outcome when a collector could not even start, e.g.
// its client could not be constructed.
func failedResult(err error) repository.CollectorResult {
	return repository.CollectorResult{
		Status:    entity.StatusFailed,
		ErrorKind: classifyError(err),
		Err:       err,
	}
}

// metricsUnavailable downgrades an otherwise complete result because a
// secondary enrichment call failed; discovered entities are kept.
func metricsUnavailable(result repository.CollectorResult, err error) repository.CollectorResult {
	if result.Err != nil || err == nil {
		return result
	}
	result.Status = entity.StatusPartial
	result.ErrorKind = entity.ErrMetricsUnavailable
	result.Err = err
	return result
}
