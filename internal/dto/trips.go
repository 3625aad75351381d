package dto

// CreateTripRequest represents the payload to create a trip
type CreateTripRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Destination string `json:"destination" validate:"required,max=200"`
	StartDate   string `json:"start_date" validate:"required"` // YYYY-MM-DD or RFC3339
	EndDate     string `json:"end_date" validate:"required"`   // YYYY-MM-DD or RFC3339
}

// TripResponse represents a trip object in responses
type TripResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	OwnerID     string `json:"owner_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CreateTripResponse envelope
type CreateTripResponse struct {
	Trip TripResponse `json:"trip"`
}

// TripListItem minimal list item
type TripListItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	OwnerID     string `json:"owner_id"`
	MemberCount int    `json:"member_count"`
	CreatedAt   string `json:"created_at"`
}

// Pagination info
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// TripListResponse envelope
type TripListResponse struct {
	Trips      []TripListItem `json:"trips"`
	Pagination Pagination     `json:"pagination"`
}

// TripMember item in trip detail
type TripMember struct {
	UserID          string `json:"user_id"`
	Role            string `json:"role"`
	Status          string `json:"status"`
	SurveySubmitted bool   `json:"survey_submitted"`
	InvitedAt       string `json:"invited_at"`
	JoinedAt        string `json:"joined_at"`
}

// TripPermissions for detail
type TripPermissions struct {
	CanGenerate bool `json:"can_generate"`
	CanDelete   bool `json:"can_delete"`
	CanInvite   bool `json:"can_invite"`
}

// TripStats for detail
type TripStats struct {
	TotalMembers       int `json:"total_members"`
	AcceptedMembers    int `json:"accepted_members"`
	PendingInvitations int `json:"pending_invitations"`
	SurveysSubmitted   int `json:"surveys_submitted"`
}

// TripDetailResponse envelope
type TripDetailResponse struct {
	Trip        TripResponse      `json:"trip"`
	Members     []TripMember      `json:"members"`
	Permissions TripPermissions   `json:"permissions"`
	Stats       TripStats         `json:"stats"`
	Readiness   ReadinessResponse `json:"readiness"`
}

// InviteRequest names the user to invite
type InviteRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}
