package domain

import "time"

// UserDetails is the optional birth profile attached to a user. Its presence
// drives the has_profile flag returned on login.
type UserDetails struct {
	DetailsID     string    `json:"id" dynamodbav:"details_id"`
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	FullName      string    `json:"full_name" dynamodbav:"full_name"`
	Gender        string    `json:"gender" dynamodbav:"gender"`
	MaritalStatus string    `json:"marital_status" dynamodbav:"marital_status"`
	DateOfBirth   string    `json:"date_of_birth" dynamodbav:"date_of_birth"` // YYYY-MM-DD
	TimeOfBirth   string    `json:"time_of_birth" dynamodbav:"time_of_birth"` // HH:MM or HH:MM:SS
	PlaceOfBirth  string    `json:"place_of_birth" dynamodbav:"place_of_birth"`
	Timezone      string    `json:"timezone" dynamodbav:"timezone"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type RegisterDetailsRequest struct {
	FullName      string `json:"full_name" validate:"required,min=1,max=255"`
	Gender        string `json:"gender" validate:"required,oneof=male female other"`
	MaritalStatus string `json:"marital_status" validate:"required,oneof=single married"`
	DateOfBirth   string `json:"date_of_birth" validate:"required,date"`
	TimeOfBirth   string `json:"time_of_birth" validate:"required,clock"`
	PlaceOfBirth  string `json:"place_of_birth" validate:"required,min=1,max=255"`
	Timezone      string `json:"timezone" validate:"required,timezone"`
}

type UpdateDetailsRequest struct {
	FullName      *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Gender        *string `json:"gender" validate:"omitempty,oneof=male female other"`
	MaritalStatus *string `json:"marital_status" validate:"omitempty,oneof=single married"`
	DateOfBirth   *string `json:"date_of_birth" validate:"omitempty,date"`
	TimeOfBirth   *string `json:"time_of_birth" validate:"omitempty,clock"`
	PlaceOfBirth  *string `json:"place_of_birth" validate:"omitempty,min=1,max=255"`
	Timezone      *string `json:"timezone" validate:"omitempty,timezone"`
}
