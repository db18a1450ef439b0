package user

type UpdateProfileRequest struct {
	FullName   string `json:"full_name" form:"full_name"`
	Email      string `json:"email" form:"email" binding:"omitempty,email"`
	Department string `json:"department" form:"department"`
	Phone      string `json:"phone" form:"phone"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type AssignManagerRequest struct {
	ManagerID uint `json:"manager_id" form:"manager_id" binding:"required"`
}

type UserResponse struct {
	ID                uint    `json:"id"`
	Email             string  `json:"email"`
	FullName          string  `json:"full_name"`
	Name              string  `json:"name"`
	Phone             string  `json:"phone"`
	Department        string  `json:"department"`
	Role              string  `json:"role"`
	ManagerID         *uint   `json:"manager_id"`
	ManagerName       *string `json:"manager_name,omitempty"`
	ProfilePictureURL string  `json:"profile_picture_url,omitempty"`
	IsActive          bool    `json:"is_active"`
	DateJoined        string  `json:"date_joined"`
}
