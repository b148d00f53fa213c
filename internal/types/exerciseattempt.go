package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AttemptAnswer is the stored evaluation of one question inside an attempt.
type AttemptAnswer struct {
	Answer       string  `json:"answer"`
	IsCorrect    bool    `json:"is_correct"`
	Points       int     `json:"points"`
	EarnedPoints int     `json:"earned_points"`
	Feedback     string  `json:"feedback,omitempty"`
	Score        float64 `json:"score,omitempty"`
}

// ExerciseAttempt holds a user's answers to one exercise. At most one row
// exists per (user_id, exercise_id); resubmission overwrites in place.
type ExerciseAttempt struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_exercise,unique" json:"user_id"`
	User        *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ExerciseID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_exercise,unique" json:"exercise_id"`
	Exercise    *Exercise      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ExerciseID;references:ID" json:"exercise,omitempty"`
	Answers     datatypes.JSON `gorm:"type:jsonb;column:answers" json:"answers"`
	Score       float64        `gorm:"column:score;not null;default:0" json:"score"`
	TotalPoints int            `gorm:"column:total_points;not null;default:0" json:"total_points"`
	IsCompleted bool           `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ExerciseAttempt) TableName() string { return "exercise_attempt" }

func (a *ExerciseAttempt) AnswerMap() (map[uuid.UUID]AttemptAnswer, error) {
	out := map[uuid.UUID]AttemptAnswer{}
	if len(a.Answers) == 0 {
		return out, nil
	}
	raw := map[string]AttemptAnswer{}
	if err := json.Unmarshal(a.Answers, &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		id, err := uuid.Parse(k)
		if err != nil {
			continue
		}
		out[id] = v
	}
	return out, nil
}

func (a *ExerciseAttempt) SetAnswerMap(answers map[uuid.UUID]AttemptAnswer) error {
	raw := make(map[string]AttemptAnswer, len(answers))
	for k, v := range answers {
		raw[k.String()] = v
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	a.Answers = datatypes.JSON(buf)
	return nil
}
