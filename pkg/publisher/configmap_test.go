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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/NVIDIA/zbx-archive/pkg/errors"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, content, 0o644))
	return p
}

func TestConfigMap_Publish(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, testTimestamp+".json", []byte("[]\n")),
		writeFile(t, dir, testTimestamp+".parquet", []byte{'P', 'A', 'R', '1', 0xff, 0xfe, 0x00}),
		writeFile(t, dir, "README.md", []byte("# Zabbix Metrics Archive\n")),
	}

	cs := fake.NewClientset()
	p := &ConfigMap{Namespace: "monitoring", ConfigMapName: "zabbix-archive", Client: cs}

	require.NoError(t, p.Publish(context.Background(), Artifacts{Timestamp: testTimestamp, Files: files}))

	cm, err := cs.CoreV1().ConfigMaps("monitoring").Get(context.Background(), "zabbix-archive", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, testTimestamp, cm.Data["timestamp"])
	assert.Equal(t, "[]\n", cm.Data[testTimestamp+".json"])
	assert.Equal(t, "# Zabbix Metrics Archive\n", cm.Data["README.md"])
	assert.Equal(t, []byte{'P', 'A', 'R', '1', 0xff, 0xfe, 0x00}, cm.BinaryData[testTimestamp+".parquet"])
	assert.Equal(t, "zbxarchive", cm.Labels["app.kubernetes.io/name"])
}

func TestConfigMap_PublishUpdates(t *testing.T) {
	dir := t.TempDir()
	cs := fake.NewClientset()
	p := &ConfigMap{Namespace: "default", ConfigMapName: "archive", Client: cs}
	ctx := context.Background()

	first := writeFile(t, dir, "README.md", []byte("one"))
	require.NoError(t, p.Publish(ctx, Artifacts{Timestamp: "2024-05-21_12-00", Files: []string{first}}))

	second := writeFile(t, dir, "README.md", []byte("two"))
	require.NoError(t, p.Publish(ctx, Artifacts{Timestamp: "2024-05-21_15-00", Files: []string{second}}))

	cm, err := cs.CoreV1().ConfigMaps("default").Get(ctx, "archive", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-21_15-00", cm.Data["timestamp"])
	assert.Equal(t, "two", cm.Data["README.md"])
}

func TestConfigMap_Errors(t *testing.T) {
	dir := t.TempDir()
	cs := fake.NewClientset()

	t.Run("missing name", func(t *testing.T) {
		err := (&ConfigMap{Namespace: "default", Client: cs}).Publish(context.Background(), Artifacts{})
		assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
	})

	t.Run("invalid key", func(t *testing.T) {
		f := writeFile(t, dir, "bad name.json", []byte("[]"))
		err := (&ConfigMap{Namespace: "default", ConfigMapName: "a", Client: cs}).Publish(context.Background(),
			Artifacts{Timestamp: testTimestamp, Files: []string{f}})
		assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
	})

	t.Run("missing file", func(t *testing.T) {
		err := (&ConfigMap{Namespace: "default", ConfigMapName: "a", Client: cs}).Publish(context.Background(),
			Artifacts{Timestamp: testTimestamp, Files: []string{filepath.Join(dir, "gone.json")}})
		assert.Equal(t, errors.ErrCodeInternal, errors.CodeOf(err))
	})

	t.Run("too large", func(t *testing.T) {
		big := make([]byte, maxConfigMapBytes+1)
		for i := range big {
			big[i] = 'a'
		}
		f := writeFile(t, dir, "big.csv", big)
		err := (&ConfigMap{Namespace: "default", ConfigMapName: "a", Client: cs}).Publish(context.Background(),
			Artifacts{Timestamp: testTimestamp, Files: []string{f}})
		assert.Equal(t, errors.ErrCodePublish, errors.CodeOf(err))
	})
}

func TestConfigMap_NameIsPublisherName(t *testing.T) {
	var p Publisher = &ConfigMap{ConfigMapName: "zabbix-archive"}
	assert.Equal(t, "configmap", p.Name())
}
