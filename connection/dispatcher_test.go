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
	"errors"
	"testing"

	"github.com/facebookincubator/vrpn-go/connection"
	"github.com/facebookincubator/vrpn-go/vrpnmsg"
	"github.com/stretchr/testify/require"
)

func TestDispatchOrderExactBeforeWildcard(t *testing.T) {
	types := connection.NewTypeTable()
	senders := connection.NewSenderTable()
	d := connection.NewTypeDispatcher(types, senders, 8)

	var order []string
	d.RegisterGeneric(connection.AnyType(), connection.AnySender(), func(vrpnmsg.GenericMessage) (connection.HandlerResult, error) {
		order = append(order, "any-any")
		return connection.ContinueProcessing, nil
	})
	d.RegisterGeneric(connection.ExactType(1), connection.AnySender(), func(vrpnmsg.GenericMessage) (connection.HandlerResult, error) {
		order = append(order, "type-exact")
		return connection.ContinueProcessing, nil
	})
	d.RegisterGeneric(connection.ExactType(1), connection.ExactSender(2), func(vrpnmsg.GenericMessage) (connection.HandlerResult, error) {
		order = append(order, "exact-exact")
		return connection.ContinueProcessing, nil
	})
	d.RegisterGeneric(connection.AnyType(), connection.ExactSender(2), func(vrpnmsg.GenericMessage) (connection.HandlerResult, error) {
		order = append(order, "sender-exact")
		return connection.ContinueProcessing, nil
	})

	d.Dispatch(1, 2, vrpnmsg.GenericMessage{})

	require.Equal(t, []string{"exact-exact", "type-exact", "sender-exact", "any-any"}, order)
}

func TestDispatchRemovesHandlerOnRequest(t *testing.T) {
	types := connection.NewTypeTable()
	senders := connection.NewSenderTable()
	d := connection.NewTypeDispatcher(types, senders, 8)

	calls := 0
	d.RegisterGeneric(connection.AnyType(), connection.AnySender(), func(vrpnmsg.GenericMessage) (connection.HandlerResult, error) {
		calls++
		return connection.RemoveThisHandler, nil
	})

	d.Dispatch(0, 0, vrpnmsg.GenericMessage{})
	d.Dispatch(0, 0, vrpnmsg.GenericMessage{})

	require.Equal(t, 1, calls)
}

func TestRegisterTypedParseFailureSkipsHandler(t *testing.T) {
	types := connection.NewTypeTable()
	senders := connection.NewSenderTable()
	d := connection.NewTypeDispatcher(types, senders, 8)

	called := false
	connection.RegisterTyped(d, connection.AnyType(), connection.AnySender(),
		func() *vrpnmsg.PoseReport { return &vrpnmsg.PoseReport{} },
		func(vrpnmsg.TypedMessage[*vrpnmsg.PoseReport]) (connection.HandlerResult, error) {
			called = true
			return connection.ContinueProcessing, nil
		})

	d.Dispatch(0, 0, vrpnmsg.GenericMessage{Body: []byte{1, 2, 3}})
	require.False(t, called)

	select {
	case err := <-d.Errors():
		require.Error(t, err)
	default:
		t.Fatal("expected a body parse error on the diagnostic channel")
	}
}

func TestRegisterTypedInvokesHandlerOnValidBody(t *testing.T) {
	types := connection.NewTypeTable()
	senders := connection.NewSenderTable()
	d := connection.NewTypeDispatcher(types, senders, 8)

	in := vrpnmsg.PoseReport{Sensor: 1}
	raw, err := in.Encode()
	require.NoError(t, err)

	var got vrpnmsg.PoseReport
	connection.RegisterTyped(d, connection.AnyType(), connection.AnySender(),
		func() *vrpnmsg.PoseReport { return &vrpnmsg.PoseReport{} },
		func(msg vrpnmsg.TypedMessage[*vrpnmsg.PoseReport]) (connection.HandlerResult, error) {
			got = *msg.Body
			return connection.ContinueProcessing, nil
		})

	d.Dispatch(0, 0, vrpnmsg.GenericMessage{Body: raw})
	require.Equal(t, in, got)
}

func TestDispatchReportsHandlerError(t *testing.T) {
	types := connection.NewTypeTable()
	senders := connection.NewSenderTable()
	d := connection.NewTypeDispatcher(types, senders, 8)

	boom := errors.New("boom")
	d.RegisterGeneric(connection.AnyType(), connection.AnySender(), func(vrpnmsg.GenericMessage) (connection.HandlerResult, error) {
		return connection.ContinueProcessing, boom
	})

	d.Dispatch(0, 0, vrpnmsg.GenericMessage{})

	select {
	case err := <-d.Errors():
		require.ErrorIs(t, err, boom)
	default:
		t.Fatal("expected handler error on diagnostic channel")
	}
}
