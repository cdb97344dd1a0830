package models

import "time"

// ActivityVerb is the ActivityStreams-style action of an activity.
type ActivityVerb string

const (
	VerbPosted    ActivityVerb = "posted"
	VerbLiked     ActivityVerb = "liked"
	VerbShared    ActivityVerb = "shared"
	VerbFollowed  ActivityVerb = "followed"
	VerbCommented ActivityVerb = "commented"
)

// ActivityVerbs lists every accepted verb.
var ActivityVerbs = []ActivityVerb{VerbPosted, VerbLiked, VerbShared, VerbFollowed, VerbCommented}

// Activity is an append-only feed entry (stored in MongoDB by the database backend).
type Activity struct {
	ID            string       `json:"id" bson:"_id"`
	SubjectID     string       `json:"subjectId" bson:"subject_id" validate:"required"`
	Verb          ActivityVerb `json:"verb" bson:"verb" validate:"required,oneof=posted liked shared followed commented"`
	ObjectType    string       `json:"objectType" bson:"object_type" validate:"required"`
	ObjectID      string       `json:"objectId" bson:"object_id" validate:"required"`
	ObjectContent *string      `json:"objectContent" bson:"object_content,omitempty"`
	CreatedAt     time.Time    `json:"createdAt" bson:"created_at"`
}
