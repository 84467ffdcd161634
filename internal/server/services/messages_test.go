package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/server/events"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(ms []*models.Message) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Text
	}
	return out
}

func TestSendMessage(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "ann")
	e.addUser(t, "bob")
	ctx := context.Background()

	m, err := e.messages.Send(ctx, "ann", "bob", "  hi bob  ")
	require.NoError(t, err)
	assert.Equal(t, "hi bob", m.Text)
	assert.Equal(t, "ann", m.FromID)
	assert.Equal(t, "bob", m.ToID)
	assert.NotEmpty(t, m.ID)

	assert.Equal(t, []string{events.SubjectMessageSent}, e.bus.subjects())
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.MessagesSent))
	assert.Empty(t, e.notificationsFor("bob"))
}

func TestSendMessage_PushesToRecipientDevice(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "ann")
	e.addUser(t, "bob")
	e.db.users["bob"].DeviceToken = "device-bob"

	long := strings.Repeat("é", pushPreviewRunes+10)
	m, err := e.messages.Send(context.Background(), "ann", "bob", long)
	require.NoError(t, err)

	require.Equal(t, []string{events.SubjectMessageSent, events.SubjectPushDeliver}, e.bus.subjects())
	push, ok := e.bus.events[1].payload.(events.Push)
	require.True(t, ok)
	assert.Equal(t, "device-bob", push.DeviceToken)
	assert.Equal(t, "ann", push.Title)
	assert.Equal(t, pushPreviewRunes, len([]rune(push.Body)))
	assert.Equal(t, m.ID, push.Data["message_id"])
}

func TestSendMessage_Errors(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "ann")
	ctx := context.Background()

	_, err := e.messages.Send(ctx, "", "ann", "hi")
	assert.ErrorIs(t, err, common.ErrAuthRequired)

	_, err = e.messages.Send(ctx, "ann", "ann", "hi me")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = e.messages.Send(ctx, "ann", "ghost", "hi")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = e.messages.Send(ctx, "ann", "ghost", " \n ")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = e.messages.Send(ctx, "ann", "ghost", strings.Repeat("a", maxMessageLength+1))
	assert.ErrorIs(t, err, common.ErrValidation)

	assert.Empty(t, e.bus.subjects())
}

func TestConversation_NewestFirstBothDirections(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "ann")
	e.addUser(t, "bob")
	e.addUser(t, "cat")
	ctx := context.Background()

	for _, step := range []struct{ from, to, text string }{
		{"ann", "bob", "one"},
		{"bob", "ann", "two"},
		{"cat", "ann", "elsewhere"},
		{"ann", "bob", "three"},
	} {
		_, err := e.messages.Send(ctx, step.from, step.to, step.text)
		require.NoError(t, err)
	}

	got, err := e.messages.Conversation(ctx, "ann", "bob", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "two", "one"}, texts(got))

	// the same conversation seen from the other side
	got, err = e.messages.Conversation(ctx, "bob", "ann", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "two", "one"}, texts(got))

	got, err = e.messages.Conversation(ctx, "ann", "bob", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"two"}, texts(got))

	got, err = e.messages.Conversation(ctx, "ann", "bob", 10, -5)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = e.messages.Conversation(ctx, "", "bob", 0, 0)
	assert.ErrorIs(t, err, common.ErrAuthRequired)
	_, err = e.messages.Conversation(ctx, "ann", "", 0, 0)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestConversations_LatestPerPartner(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "ann")
	e.addUser(t, "bob")
	e.addUser(t, "cat")
	e.addUser(t, "dan")
	ctx := context.Background()

	for _, step := range []struct{ from, to, text string }{
		{"ann", "bob", "to bob"},
		{"cat", "ann", "from cat"},
		{"bob", "ann", "bob replies"},
		{"bob", "dan", "not ann's"},
	} {
		_, err := e.messages.Send(ctx, step.from, step.to, step.text)
		require.NoError(t, err)
	}

	got, err := e.messages.Conversations(ctx, "ann", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bob", got[0].PartnerID)
	assert.Equal(t, "bob replies", got[0].Last.Text)
	assert.Equal(t, "cat", got[1].PartnerID)
	assert.Equal(t, "from cat", got[1].Last.Text)

	got, err = e.messages.Conversations(ctx, "ann", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = e.messages.Conversations(ctx, "dan", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].PartnerID)

	_, err = e.messages.Conversations(ctx, "", 0)
	assert.ErrorIs(t, err, common.ErrAuthRequired)
}
