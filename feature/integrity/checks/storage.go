package checks

import (
	"context"
	"fmt"

	"seminar-sync/core/storage"
)

// BucketReport is the result of checking the archive bucket.
type BucketReport struct {
	Bucket string `json:"bucket"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// CheckBucket verifies that bucket exists. A nil client means archiving is
// turned off, which is not a failure.
func CheckBucket(ctx context.Context, client storage.Client, bucket string) BucketReport {
	report := BucketReport{Bucket: bucket, Status: StatusOK}
	if client == nil {
		report.Status = StatusDisabled
		return report
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		report.Status = StatusError
		report.Error = fmt.Sprintf("failed to check bucket existence: %v", err)
		return report
	}
	if !exists {
		report.Status = StatusMissing
		report.Error = fmt.Sprintf("bucket %s does not exist", bucket)
	}
	return report
}
