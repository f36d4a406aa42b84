package model

// Grade is the score of one student in one subject.
//
// The (student_id, subject_id) pair is unique; removing the referenced
// student or subject removes the grade with it.
type Grade struct {
	ID        int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	StudentID int64 `json:"student_id" gorm:"not null;uniqueIndex:idx_grades_student_subject,priority:1"`
	SubjectID int64 `json:"subject_id" gorm:"not null;uniqueIndex:idx_grades_student_subject,priority:2"`
	Score     int   `json:"score" gorm:"not null"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE"`
}

func (Grade) TableName() string { return "grades" }
