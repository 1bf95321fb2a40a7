package dto

// RegisterRequest payload.
type RegisterRequest struct {
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	MiddleName    *string `json:"middle_name"`
	MobilePhone   *string `json:"mobile_phone"`
	InternalPhone *string `json:"internal_phone"`
	Floor         *int    `json:"floor"`
	OfficeNumber  *string `json:"office_number"`
	Position      string  `json:"position"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	DeviceInfo *string `json:"device_info"`
}

// LoginResponse returns the bearer token alongside the account profile.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
