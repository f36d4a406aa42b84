package model

// Student is a named learner. Names are unique across students.
type Student struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"not null;uniqueIndex"`
}

func (Student) TableName() string { return "students" }

func (s *Student) GetID() int64        { return s.ID }
func (s *Student) GetName() string     { return s.Name }
func (s *Student) SetName(name string) { s.Name = name }
func (s *Student) EntityName() string  { return "Student" }
