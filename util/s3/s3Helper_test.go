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

package s3

import (
	"os"
	"testing"

	"github.com/algorand/go-arbiter/test/partitiontest"
)

func TestGetS3UploadBucket(t *testing.T) {
	partitiontest.PartitionTest(t)

	tests := []struct {
		name           string
		getDefault     bool
		wantBucketName string
	}{
		{name: "test1", wantBucketName: "test-bucket"},
		{name: "test2", wantBucketName: "anotherbucket"},
		{name: "test3", getDefault: true, wantBucketName: "arbiter-uploads"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.getDefault {
				os.Unsetenv("S3_UPLOAD_BUCKET")
			} else {
				os.Setenv("S3_UPLOAD_BUCKET", tt.wantBucketName)
			}
			if gotBucketName := GetS3UploadBucket(); gotBucketName != tt.wantBucketName {
				t.Errorf("GetS3UploadBucket() = %v, want %v", gotBucketName, tt.wantBucketName)
			}
		})
	}
	os.Unsetenv("S3_UPLOAD_BUCKET")
}

func TestGetS3Region(t *testing.T) {
	partitiontest.PartitionTest(t)

	os.Unsetenv("S3_REGION")
	if got := getS3Region(); got != "us-east-1" {
		t.Errorf("getS3Region() = %v, want us-east-1", got)
	}
	os.Setenv("S3_REGION", "eu-west-2")
	if got := getS3Region(); got != "eu-west-2" {
		t.Errorf("getS3Region() = %v, want eu-west-2", got)
	}
	os.Unsetenv("S3_REGION")
}

func TestValidateS3Params(t *testing.T) {
	partitiontest.PartitionTest(t)

	if err := validateS3Params("upload", "", "", "bucket"); err == nil {
		t.Errorf("validateS3Params accepted empty credentials")
	}
	if err := validateS3Params("upload", "id", "key", ""); err == nil {
		t.Errorf("validateS3Params accepted empty bucket")
	}
	if err := validateS3Params("upload", "id", "key", "bucket"); err != nil {
		t.Errorf("validateS3Params rejected valid params: %v", err)
	}
}

func TestMakeS3SessionRequiresCredentials(t *testing.T) {
	partitiontest.PartitionTest(t)

	os.Unsetenv("AWS_ACCESS_KEY_ID")
	os.Unsetenv("AWS_SECRET_ACCESS_KEY")
	if _, err := MakeS3SessionForUploadWithBucket("bucket"); err == nil {
		t.Errorf("MakeS3SessionForUploadWithBucket succeeded without credentials")
	}
	if _, err := MakeS3SessionForDownloadWithBucket("bucket"); err == nil {
		t.Errorf("MakeS3SessionForDownloadWithBucket succeeded without credentials")
	}
}

func TestGetSequenceFromName(t *testing.T) {
	partitiontest.PartitionTest(t)

	tests := []struct {
		name         string
		objectName   string
		wantSequence uint64
		wantErr      bool
	}{
		{name: "test1", objectName: "arbiter_snapshot_12.snap.zst", wantSequence: 12},
		{name: "test2", objectName: "arbiter_snapshot_994575.snap.zst", wantSequence: 994575},
		{name: "test3", objectName: "mainnet_0.snap.zst", wantSequence: 0},
		{name: "test4", objectName: "arbiter_snapshot.tar", wantErr: true},
		{name: "test5", objectName: "nonsense", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetSequenceFromName(tt.objectName)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetSequenceFromName() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.wantSequence {
				t.Errorf("GetSequenceFromName() = %v, want %v", got, tt.wantSequence)
			}
		})
	}
}
