package user

import "time"

type User struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Email          string    `gorm:"column:email;type:varchar(254);not null;uniqueIndex:idx_users_email"`
	Password       string    `gorm:"column:password;type:varchar(128);not null"`
	FullName       string    `gorm:"column:full_name;type:varchar(150)"`
	Phone          string    `gorm:"column:phone;type:varchar(20)"`
	Department     string    `gorm:"column:department;type:varchar(100)"`
	Role           string    `gorm:"column:role;type:varchar(20);not null;default:employee;index"`
	ManagerID      *uint     `gorm:"column:manager_id;index"`
	ProfilePicture string    `gorm:"column:profile_picture;type:varchar(255)"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true"`
	DateJoined     time.Time `gorm:"column:date_joined;autoCreateTime"`

	Manager *User `gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL"`
}

// DisplayName falls back to the email when no full name was given.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
