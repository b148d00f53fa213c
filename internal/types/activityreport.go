package types

import (
	"time"

	"github.com/google/uuid"
)

// ActivityWindowReport is a derived view, never persisted. Counts are by
// distinct question id observed inside [WindowStart, WindowEnd).
type ActivityWindowReport struct {
	UserID         uuid.UUID         `json:"user_id"`
	WindowStart    time.Time         `json:"window_start"`
	WindowEnd      time.Time         `json:"window_end"`
	Subjects       []SubjectActivity `json:"subjects"`
	AIMessageCount int64             `json:"ai_message_count"`
}

type SubjectActivity struct {
	SubjectID             uuid.UUID         `json:"subject_id"`
	SubjectName           string            `json:"subject_name"`
	DistinctQuestionCount int               `json:"distinct_question_count"`
	Chapters              []ChapterActivity `json:"chapters"`
}

type ChapterActivity struct {
	ChapterID             uuid.UUID          `json:"chapter_id"`
	ChapterName           string             `json:"chapter_name"`
	DistinctQuestionCount int                `json:"distinct_question_count"`
	Exercises             []ExerciseActivity `json:"exercises"`
}

type ExerciseActivity struct {
	ExerciseID            uuid.UUID `json:"exercise_id"`
	Title                 string    `json:"title"`
	DistinctQuestionCount int       `json:"distinct_question_count"`
}
