package handler

import "time"

// messageResponse is the envelope for confirmations and errors alike.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// loginRequest carries no validation tags: every bad input must collapse
// into the same invalid-credentials answer.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// --- Users ---

type userRefResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type updateUserRequest struct {
	Role     *string `json:"role"     validate:"omitempty,oneof=user admin"`
	Disabled *bool   `json:"disabled"`
}

type ratingResponse struct {
	UserID  string  `json:"userId"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// --- Services ---

type createServiceRequest struct {
	Title       string   `json:"title"       validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=5000"`
	Category    string   `json:"category"    validate:"required,max=100"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Location    string   `json:"location"    validate:"required,max=200"`
}

type updateServiceRequest struct {
	Title       *string  `json:"title"       validate:"omitempty,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Category    *string  `json:"category"    validate:"omitempty,max=100"`
	Price       *float64 `json:"price"       validate:"omitempty,gte=0"`
	Location    *string  `json:"location"    validate:"omitempty,max=200"`
	Status      *string  `json:"status"      validate:"omitempty,oneof=open in_progress closed"`
}

type serviceResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       float64          `json:"price"`
	Location    string           `json:"location"`
	Status      string           `json:"status"`
	OwnerID     string           `json:"ownerId"`
	Owner       *userRefResponse `json:"owner,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// --- Categories ---

type createCategoryRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type categoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// --- Reviews ---

type createReviewRequest struct {
	ServiceID string `json:"serviceId" validate:"required"`
	Rating    int    `json:"rating"    validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment"   validate:"max=2000"`
}

type reviewResponse struct {
	ID        string           `json:"id"`
	ServiceID string           `json:"serviceId"`
	AuthorID  string           `json:"authorId"`
	Author    *userRefResponse `json:"author,omitempty"`
	Rating    int              `json:"rating"`
	Comment   string           `json:"comment"`
	CreatedAt time.Time        `json:"createdAt"`
}

// --- Applications ---

type applyRequest struct {
	Message string `json:"message" validate:"max=2000"`
}

type decideApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

type applicationResponse struct {
	ID         string           `json:"id"`
	ServiceID  string           `json:"serviceId"`
	ProviderID string           `json:"providerId"`
	Provider   *userRefResponse `json:"provider,omitempty"`
	Message    string           `json:"message"`
	Status     string           `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// --- Notifications ---

type notificationResponse struct {
	ID         string    `json:"id"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"isRead"`
	ActionText string    `json:"actionText,omitempty"`
	ActionURL  string    `json:"actionUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type notificationListResponse struct {
	Items       []notificationResponse `json:"items"`
	UnreadCount int                    `json:"unreadCount"`
}

type markAllReadResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

// --- Reports ---

type createReportRequest struct {
	ReportedUserID string `json:"reportedUserId" validate:"required"`
	Reason         string `json:"reason"         validate:"required,max=2000"`
}

type reportStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed resolved"`
}

type reportResponse struct {
	ID             string    `json:"id"`
	ReporterID     string    `json:"reporterId"`
	ReportedUserID string    `json:"reportedUserId"`
	Reason         string    `json:"reason"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
