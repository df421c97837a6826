package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// toggleMembership flips member in set, returning the new set and whether
// the member was added. Applying it twice always restores the original
// membership.
func toggleMembership(set []string, member string) ([]string, bool) {
	for i, m := range set {
		if m == member {
			out := make([]string, 0, len(set)-1)
			out = append(out, set[:i]...)
			out = append(out, set[i+1:]...)
			return out, false
		}
	}
	out := make([]string, 0, len(set)+1)
	out = append(out, set...)
	out = append(out, member)
	return out, true
}

// toggleDocSet flips uid's membership in an array field of a single
// document, keeping counterField equal to the set's cardinality. Each
// branch is one atomic update conditioned on the current membership, so
// concurrent toggles cannot lose updates or drift the counter: the insert
// only fires while uid is absent, the removal only while present.
func toggleDocSet(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, field, counterField, uid string) (added bool, err error) {
	// Two passes over the pair. A concurrent toggle by the same uid can flip
	// membership between the two conditional updates, making both miss even
	// though the document exists; the retry sees the settled state. Only a
	// document that is genuinely absent misses all four updates.
	for attempt := 0; attempt < 2; attempt++ {
		update := bson.M{"$addToSet": bson.M{field: uid}}
		if counterField != "" {
			update["$inc"] = bson.M{counterField: 1}
		}
		res, err := coll.UpdateOne(ctx, bson.M{"_id": id, field: bson.M{"$ne": uid}}, update)
		if err != nil {
			return false, err
		}
		if res.MatchedCount == 1 {
			return true, nil
		}

		update = bson.M{"$pull": bson.M{field: uid}}
		if counterField != "" {
			update["$inc"] = bson.M{counterField: -1}
		}
		res, err = coll.UpdateOne(ctx, bson.M{"_id": id, field: uid}, update)
		if err != nil {
			return false, err
		}
		if res.MatchedCount == 1 {
			return false, nil
		}
	}
	return false, mongo.ErrNoDocuments
}
