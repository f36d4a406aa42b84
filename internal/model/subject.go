package model

// Subject is a named course. Same shape as Student, separate namespace.
type Subject struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"not null;uniqueIndex"`
}

func (Subject) TableName() string { return "subjects" }

func (s *Subject) GetID() int64        { return s.ID }
func (s *Subject) GetName() string     { return s.Name }
func (s *Subject) SetName(name string) { s.Name = name }
func (s *Subject) EntityName() string  { return "Subject" }
