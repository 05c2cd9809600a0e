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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/zbx-archive/pkg/errors"
)

type recordingPublisher struct {
	name  string
	err   error
	calls *[]string
}

func (r *recordingPublisher) Name() string { return r.name }

func (r *recordingPublisher) Publish(_ context.Context, a Artifacts) error {
	*r.calls = append(*r.calls, fmt.Sprintf("%s:%s", r.name, a.Timestamp))
	return r.err
}

func TestChain_RunsInOrder(t *testing.T) {
	var calls []string
	c := Chain{
		&recordingPublisher{name: "a", calls: &calls},
		nil,
		&recordingPublisher{name: "b", calls: &calls},
	}

	require.NoError(t, c.Publish(context.Background(), Artifacts{Timestamp: testTimestamp, Files: []string{"x"}}))
	assert.Equal(t, []string{"a:" + testTimestamp, "b:" + testTimestamp}, calls)
	assert.Equal(t, "chain", c.Name())
}

func TestChain_StopsOnFailure(t *testing.T) {
	var calls []string
	boom := errors.New(errors.ErrCodePublish, "boom")
	c := Chain{
		&recordingPublisher{name: "a", calls: &calls, err: boom},
		&recordingPublisher{name: "b", calls: &calls},
	}

	err := c.Publish(context.Background(), Artifacts{Timestamp: testTimestamp, Files: []string{"x"}})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a:" + testTimestamp}, calls)
}

func TestChain_NoFiles(t *testing.T) {
	var calls []string
	c := Chain{&recordingPublisher{name: "a", calls: &calls}}

	err := c.Publish(context.Background(), Artifacts{Timestamp: testTimestamp})
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
	assert.Empty(t, calls)
}

func TestChain_Empty(t *testing.T) {
	require.NoError(t, Chain{}.Publish(context.Background(), Artifacts{Files: []string{"x"}}))
}
