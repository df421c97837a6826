package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestToggleMembershipAddsAndRemoves(t *testing.T) {
	set, added := toggleMembership(nil, "u1")
	assert.True(t, added)
	assert.Equal(t, []string{"u1"}, set)

	set, added = toggleMembership(set, "u2")
	assert.True(t, added)
	assert.Equal(t, []string{"u1", "u2"}, set)

	set, added = toggleMembership(set, "u1")
	assert.False(t, added)
	assert.Equal(t, []string{"u2"}, set)
}

// Toggling twice returns to the original state: membership and count both
// round-trip.
func TestToggleMembershipIdempotence(t *testing.T) {
	original := []string{"a", "b", "c"}

	// Member not in the set: add then remove.
	once, added := toggleMembership(original, "d")
	assert.True(t, added)
	assert.Len(t, once, 4)
	twice, added := toggleMembership(once, "d")
	assert.False(t, added)
	assert.ElementsMatch(t, original, twice)

	// Member already in the set: remove then add.
	once, added = toggleMembership(original, "b")
	assert.False(t, added)
	assert.Len(t, once, 2)
	twice, added = toggleMembership(once, "b")
	assert.True(t, added)
	assert.ElementsMatch(t, original, twice)
}

func TestToggleMembershipNeverDuplicates(t *testing.T) {
	set := []string{"a"}
	set, _ = toggleMembership(set, "a") // removed
	set, _ = toggleMembership(set, "a") // added back
	assert.Equal(t, []string{"a"}, set)

	count := 0
	for _, m := range set {
		if m == "a" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func updateMatched(n int) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: n},
		bson.E{Key: "nModified", Value: n},
	)
}

// A concurrent toggle by the same user can flip membership between the
// add and remove updates, making both miss on a document that exists. The
// pair is retried once so the caller sees the settled state instead of a
// spurious not-found.
func TestToggleDocSetRetriesWhenBothUpdatesMiss(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("second pass lands", func(mt *mtest.T) {
		mt.AddMockResponses(
			updateMatched(0), // add misses
			updateMatched(0), // remove misses too
			updateMatched(1), // retried add lands
		)

		added, err := toggleDocSet(context.Background(), mt.Coll,
			primitive.NewObjectID(), "likedBy", "likes", "u1")
		require.NoError(mt, err)
		assert.True(mt, added)
	})

	mt.Run("absent document", func(mt *mtest.T) {
		mt.AddMockResponses(
			updateMatched(0),
			updateMatched(0),
			updateMatched(0),
			updateMatched(0),
		)

		_, err := toggleDocSet(context.Background(), mt.Coll,
			primitive.NewObjectID(), "likedBy", "likes", "u1")
		assert.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})
}

func TestToggleMembershipDoesNotMutateInput(t *testing.T) {
	original := []string{"a", "b"}
	toggleMembership(original, "c")
	toggleMembership(original, "a")
	assert.Equal(t, []string{"a", "b"}, original)
}
