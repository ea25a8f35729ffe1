/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package connection_test

import (
	"testing"

	"github.com/facebookincubator/vrpn-go/connection"
	"github.com/stretchr/testify/require"
)

func TestSenderTableAddLocalIsIdempotent(t *testing.T) {
	st := connection.NewSenderTable()
	a := st.AddLocal("TrackerA")
	b := st.AddLocal("TrackerA")
	require.Equal(t, a, b)

	c := st.AddLocal("TrackerB")
	require.NotEqual(t, a, c)
}

func TestSenderTableRecordRemoteTranslation(t *testing.T) {
	st := connection.NewSenderTable()
	local := st.AddLocal("TrackerA")

	boundLocal, err := st.RecordRemote("TrackerA", 42)
	require.NoError(t, err)
	require.Equal(t, local, boundLocal)

	got, ok := st.MapToLocal(42)
	require.True(t, ok)
	require.Equal(t, local, got)

	remote, ok := st.MapToRemote(local)
	require.True(t, ok)
	require.Equal(t, connection.RemoteID(42), remote)
}

func TestSenderTableRecordRemoteWithoutPriorLocal(t *testing.T) {
	st := connection.NewSenderTable()
	local, err := st.RecordRemote("TrackerA", 42)
	require.NoError(t, err)

	got, ok := st.MapToLocal(42)
	require.True(t, ok)
	require.Equal(t, local, got)
}

func TestSenderTableRebindSamePairIsNoop(t *testing.T) {
	st := connection.NewSenderTable()
	local, err := st.RecordRemote("TrackerA", 42)
	require.NoError(t, err)

	again, err := st.RecordRemote("TrackerA", 42)
	require.NoError(t, err)
	require.Equal(t, local, again)
}

func TestSenderTableRejectsRemoteConflict(t *testing.T) {
	st := connection.NewSenderTable()
	_, err := st.RecordRemote("TrackerA", 42)
	require.NoError(t, err)

	_, err = st.RecordRemote("TrackerB", 42)
	require.ErrorIs(t, err, connection.RemoteIdConflict)
}

func TestSenderTableRejectsRebindingNameToDifferentRemote(t *testing.T) {
	st := connection.NewSenderTable()
	_, err := st.RecordRemote("TrackerA", 42)
	require.NoError(t, err)

	_, err = st.RecordRemote("TrackerA", 43)
	require.ErrorIs(t, err, connection.RemoteIdConflict)
}

func TestSenderTableMapToLocalUnknownRemote(t *testing.T) {
	st := connection.NewSenderTable()
	_, ok := st.MapToLocal(99)
	require.False(t, ok)
}

func TestSenderTableTranslationInjectivity(t *testing.T) {
	st := connection.NewSenderTable()
	names := []string{"A", "B", "C"}
	for i, name := range names {
		_, err := st.RecordRemote(name, connection.RemoteID(100+i))
		require.NoError(t, err)
	}
	for i := range names {
		local, ok := st.MapToLocal(connection.RemoteID(100 + i))
		require.True(t, ok)
		remote, ok := st.MapToRemote(local)
		require.True(t, ok)
		require.Equal(t, connection.RemoteID(100+i), remote)
	}
}

func TestSenderTablePairsPreservesRegistrationOrder(t *testing.T) {
	st := connection.NewSenderTable()
	st.AddLocal("First")
	st.AddLocal("Second")
	st.AddLocal("Third")

	pairs := st.Pairs()
	require.Len(t, pairs, 3)
	require.Equal(t, "First", pairs[0].Name)
	require.Equal(t, "Second", pairs[1].Name)
	require.Equal(t, "Third", pairs[2].Name)
}

func TestTypeTableMirrorsSenderTableBehavior(t *testing.T) {
	tt := connection.NewTypeTable()
	local, err := tt.RecordRemote("vrpn_Tracker Pos_Quat", 7)
	require.NoError(t, err)

	got, ok := tt.MapToLocal(7)
	require.True(t, ok)
	require.Equal(t, local, got)

	name, ok := tt.NameForLocal(local)
	require.True(t, ok)
	require.Equal(t, "vrpn_Tracker Pos_Quat", name)
}
