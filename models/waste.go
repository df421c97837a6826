package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// WasteHistoryItem is one classified upload. Immutable after insert except
// for deletion by its owner.
type WasteHistoryItem struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	CO2e           int                `bson:"co2e" json:"co2e"` // grams CO2 equivalent
	ImageRes       string             `bson:"imageRes" json:"imageRes"`
	Date           int64              `bson:"date" json:"date"` // unix seconds
	UploadedBy     primitive.ObjectID `bson:"uploadedBy" json:"uploadedBy"`
	DisposalMethod string             `bson:"disposalMethod" json:"disposalMethod"`
}

// WasteItem is a read-only catalog entry users can log directly without
// photographing anything.
type WasteItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	CO2e         int                `bson:"co2e" json:"co2e"`
	ImageRes     string             `bson:"imageRes" json:"imageRes"`
	SortingGuide string             `bson:"sortingGuide" json:"sortingGuide"`
}
