package handlers

import (
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// A $set carrying _id would make MongoDB reject every re-subscribe after
// the initial insert (ImmutableField), leaving the stale subscription in
// place. The wire document must only set userId and sub.
func TestSubscriptionUpdateOmitsImmutableID(t *testing.T) {
	update := subscriptionUpdate(primitive.NewObjectID(), webpush.Subscription{
		Endpoint: "https://push.example.com/endpoint",
		Keys:     webpush.Keys{P256dh: "p256dh-key", Auth: "auth-secret"},
	})

	raw, err := bson.Marshal(update)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))

	set, ok := doc["$set"].(bson.M)
	require.True(t, ok)
	assert.NotContains(t, set, "_id")
	assert.Contains(t, set, "userId")
	assert.Contains(t, set, "sub")
}
