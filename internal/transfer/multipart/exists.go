package multipart

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// noSuchUploadCode is the S3 error code for a missing multipart upload id.
const noSuchUploadCode = "NoSuchUpload"

// IsNoSuchUpload reports whether err means the multipart upload id does not
// exist remotely. Both the modeled SDK error type and the raw API error code
// are checked; S3-compatible stores do not always return the modeled type.
func IsNoSuchUpload(err error) bool {
	var nsu *awstypes.NoSuchUpload
	if errors.As(err, &nsu) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == noSuchUploadCode
	}
	return false
}

// CheckUpload asks the store whether the multipart upload id still exists.
// A missing id is a definite answer, not an error; any other failure is
// returned so the caller can retry within its own bound.
func (u *Uploader) CheckUpload(ctx context.Context, bucket, key, uploadID string) (bool, error) {
	_, err := u.s3Client.ListParts(ctx, &s3.ListPartsInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		if IsNoSuchUpload(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
