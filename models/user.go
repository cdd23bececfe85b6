package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	FullName string

	// One child per account; multi-child support is out of scope.
	ChildName      string
	ChildBirthDate *time.Time
}
