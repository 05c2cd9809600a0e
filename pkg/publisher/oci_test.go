// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/memory"

	"github.com/NVIDIA/zbx-archive/pkg/errors"
)

func TestOCI_Publish(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, testTimestamp+".json", []byte("[]\n")),
		writeFile(t, dir, testTimestamp+".csv", []byte("host,metric,value,units,timestamp\n")),
		writeFile(t, dir, "README.md", []byte("# Zabbix Metrics Archive\n")),
	}

	store := memory.New()
	p := &OCI{Registry: "localhost:5000", Repository: "nvidia/zabbix-archive", Target: store}
	generated := time.Date(2024, 5, 21, 12, 0, 0, 0, time.UTC)

	require.NoError(t, p.Publish(context.Background(), Artifacts{
		Timestamp:   testTimestamp,
		GeneratedAt: generated,
		Files:       files,
	}))

	ctx := context.Background()
	desc, err := store.Resolve(ctx, testTimestamp)
	require.NoError(t, err)

	raw, err := content.FetchAll(ctx, store, desc)
	require.NoError(t, err)

	var manifest ociv1.Manifest
	require.NoError(t, json.Unmarshal(raw, &manifest))
	assert.Equal(t, ArtifactType, manifest.ArtifactType)
	assert.Equal(t, "2024-05-21T12:00:00Z", manifest.Annotations[ociv1.AnnotationCreated])
	require.Len(t, manifest.Layers, 3)

	titles := make([]string, 0, len(manifest.Layers))
	types := make([]string, 0, len(manifest.Layers))
	for _, l := range manifest.Layers {
		titles = append(titles, l.Annotations[ociv1.AnnotationTitle])
		types = append(types, l.MediaType)
	}
	assert.Equal(t, []string{testTimestamp + ".json", testTimestamp + ".csv", "README.md"}, titles)
	assert.Equal(t, []string{"application/json", "text/csv", "text/markdown"}, types)
}

func TestOCI_Validate(t *testing.T) {
	tests := []struct {
		name string
		oci  OCI
		tag  string
	}{
		{"missing registry", OCI{Repository: "a/b"}, testTimestamp},
		{"missing repository", OCI{Registry: "ghcr.io"}, testTimestamp},
		{"empty tag", OCI{Registry: "ghcr.io", Repository: "a/b"}, ""},
		{"invalid registry", OCI{Registry: "invalid registry with spaces", Repository: "a/b"}, testTimestamp},
		{"invalid tag", OCI{Registry: "ghcr.io", Repository: "a/b"}, "bad tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.oci.Validate(tt.tag)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
		})
	}

	valid := OCI{Registry: "https://ghcr.io/", Repository: "nvidia/zabbix-archive"}
	require.NoError(t, valid.Validate(testTimestamp))
	assert.Equal(t, "ghcr.io/nvidia/zabbix-archive:"+testTimestamp, valid.Reference(testTimestamp))
}

func TestOCI_MissingFile(t *testing.T) {
	p := &OCI{Registry: "localhost:5000", Repository: "a/b", Target: memory.New()}
	err := p.Publish(context.Background(), Artifacts{Timestamp: testTimestamp, Files: []string{"/nonexistent/x.json"}})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePublish, errors.CodeOf(err))
}

func TestMediaTypeFor(t *testing.T) {
	assert.Equal(t, "application/json", mediaTypeFor("a/b.JSON"))
	assert.Equal(t, "application/vnd.apache.parquet", mediaTypeFor("x.parquet"))
	assert.Equal(t, "application/octet-stream", mediaTypeFor("x.bin"))
}

func TestStripProtocol(t *testing.T) {
	tests := map[string]string{
		"https://ghcr.io":       "ghcr.io",
		"http://localhost:5000": "localhost:5000",
		"registry.example.com":  "registry.example.com",
		"ghcr.io/":              "ghcr.io",
	}
	for in, want := range tests {
		assert.Equal(t, want, stripProtocol(in), in)
	}
}
