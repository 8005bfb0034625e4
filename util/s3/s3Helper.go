// Copyright (C) 2019-2026 Algorand, Inc.
// This file is part of go-arbiter
//
// go-arbiter is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-arbiter is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-arbiter.  If not, see <https://www.gnu.org/licenses/>.

// Package s3 uploads and fetches journal snapshot archives. Credentials are
// never read from configuration files; they come from the standard
// AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY environment variables only.
package s3

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const s3DefaultUploadBucket = "arbiter-uploads"
const s3DefaultRegion = "us-east-1"

// Helper encapsulates the s3 session state for interacting with a snapshot bucket with appropriate credentials
type Helper struct {
	session *session.Session
	bucket  string
}

// GetS3UploadBucket returns the S3_UPLOAD_BUCKET environment variable, or the default upload bucket when unset
func GetS3UploadBucket() (bucketName string) {
	bucketName, found := os.LookupEnv("S3_UPLOAD_BUCKET")
	if !found {
		bucketName = s3DefaultUploadBucket
	}
	return
}

func getS3Region() (region string) {
	region, found := os.LookupEnv("S3_REGION")
	if !found {
		region = s3DefaultRegion
	}
	return
}

func getAWSCredentials() (awsID string, awsKey string) {
	awsID, _ = os.LookupEnv("AWS_ACCESS_KEY_ID")
	awsKey, _ = os.LookupEnv("AWS_SECRET_ACCESS_KEY")
	return
}

func validateS3Params(action string, awsID string, awsKey string, awsBucket string) (err error) {
	if awsID == "" || awsKey == "" {
		err = fmt.Errorf("unable to %s. Credentials must be specified in AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY", action)
		return
	}
	if awsBucket == "" {
		err = fmt.Errorf("unable to %s, bucket name is empty", action)
		return
	}
	return
}

// MakeS3SessionForUpload returns an s3.Helper with the default bucket for upload
func MakeS3SessionForUpload() (helper Helper, err error) {
	return MakeS3SessionForUploadWithBucket(GetS3UploadBucket())
}

// MakeS3SessionForUploadWithBucket upload to bucket
func MakeS3SessionForUploadWithBucket(awsBucket string) (helper Helper, err error) {
	awsID, awsKey := getAWSCredentials()
	if awsBucket == "" {
		awsBucket = s3DefaultUploadBucket
	}
	err = validateS3Params("upload", awsID, awsKey, awsBucket)
	if err != nil {
		return
	}
	creds := credentials.NewStaticCredentials(awsID, awsKey, "")
	return makeS3Session(creds, awsBucket)
}

// MakeS3SessionForDownloadWithBucket download from bucket
func MakeS3SessionForDownloadWithBucket(awsBucket string) (helper Helper, err error) {
	awsID, awsKey := getAWSCredentials()
	if awsBucket == "" {
		awsBucket = s3DefaultUploadBucket
	}
	err = validateS3Params("download", awsID, awsKey, awsBucket)
	if err != nil {
		return
	}
	creds := credentials.NewStaticCredentials(awsID, awsKey, "")
	return makeS3Session(creds, awsBucket)
}

func makeS3Session(credentials *credentials.Credentials, bucket string) (helper Helper, err error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(getS3Region()),
		Credentials: credentials})
	if err != nil {
		return
	}
	helper = Helper{
		session: sess,
		bucket:  bucket,
	}
	return
}

// UploadFileStream sends file as stream to s3
func (helper *Helper) UploadFileStream(filename string, reader io.Reader) error {
	uploader := s3manager.NewUploader(helper.session)
	_, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(helper.bucket),
		Key:    aws.String(filepath.Base(filename)),
		Body:   reader,
	})
	if err != nil {
		return err
	}
	return nil
}

// DownloadFile downloads the specified file to the provided Writer
func (helper *Helper) DownloadFile(name string, writer io.WriterAt) error {
	downloader := s3manager.NewDownloader(helper.session)
	_, err := downloader.Download(writer,
		&s3.GetObjectInput{
			Bucket: &helper.bucket,
			Key:    aws.String(name),
		})
	return err
}

// GetLatestSnapshot returns the newest snapshot object matching the given
// standard filename prefix, by journal sequence number.
func (helper *Helper) GetLatestSnapshot(prefix string) (maxSequence uint64, maxSequenceName string, err error) {
	return helper.GetSnapshot(prefix, 0)
}

// GetSnapshot ensures a snapshot at the specified sequence is present and
// returns the name of the object, if found.
// Or if specificSequence == 0, returns the name of the object with the max sequence.
func (helper *Helper) GetSnapshot(prefix string, specificSequence uint64) (maxSequence uint64, maxSequenceName string, err error) {
	maxSequence = 0
	maxSequenceName = ""

	svc := s3.New(helper.session)
	input := &s3.ListObjectsInput{
		Bucket:  &helper.bucket,
		Prefix:  &prefix,
		MaxKeys: aws.Int64(500),
	}

	result, err := svc.ListObjects(input)
	if err != nil {
		if awsErr, ok := err.(awserr.Error); ok {
			err = awsErr
		}
		return
	}

	for _, item := range result.Contents {
		var sequence uint64
		name := string(*item.Key)
		sequence, err = GetSequenceFromName(name)
		if err != nil {
			return
		}
		if specificSequence != 0 {
			if sequence == specificSequence {
				maxSequence = sequence
				maxSequenceName = name
				break
			}
		} else if sequence > maxSequence {
			maxSequence = sequence
			maxSequenceName = name
		}
	}
	return
}

// GetSequenceFromName parses the journal sequence number out of a snapshot
// object name of the form <prefix>_<sequence>.snap.zst
func GetSequenceFromName(name string) (sequence uint64, err error) {
	re := regexp.MustCompile(`_(\d+)\.snap`)
	submatch := re.FindStringSubmatch(name)
	if len(submatch) != 2 {
		err = errors.New("unable to parse sequence from object name " + name)
		return
	}
	sequence, err = strconv.ParseUint(submatch[1], 10, 64)
	return
}
