package handler

import (
	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
)

// --- Request → Service input ---

func toCreateServiceInput(req createServiceRequest) ports.CreateServiceInput {
	in := ports.CreateServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
	}
	if req.Price != nil {
		in.Price = *req.Price
	}
	return in
}

func toUpdateServiceInput(req updateServiceRequest) ports.UpdateServiceInput {
	return ports.UpdateServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Location:    req.Location,
		Status:      req.Status,
	}
}

// --- Domain → HTTP response ---

func toUserRef(u *domain.UserRef) *userRefResponse {
	if u == nil {
		return nil
	}
	return &userRefResponse{ID: u.ID, Username: u.Username}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Disabled:  u.Disabled,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func toServiceResponse(s *domain.Service) serviceResponse {
	return serviceResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Category:    s.Category,
		Price:       s.Price,
		Location:    s.Location,
		Status:      string(s.Status),
		OwnerID:     s.OwnerID,
		Owner:       toUserRef(s.Owner),
		CreatedAt:   s.CreatedAt.UTC(),
		UpdatedAt:   s.UpdatedAt.UTC(),
	}
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:        r.ID,
		ServiceID: r.ServiceID,
		AuthorID:  r.AuthorID,
		Author:    toUserRef(r.Author),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

func toApplicationResponse(a *domain.Application) applicationResponse {
	return applicationResponse{
		ID:         a.ID,
		ServiceID:  a.ServiceID,
		ProviderID: a.ProviderID,
		Provider:   toUserRef(a.Provider),
		Message:    a.Message,
		Status:     string(a.Status),
		CreatedAt:  a.CreatedAt.UTC(),
		UpdatedAt:  a.UpdatedAt.UTC(),
	}
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:         n.ID,
		Message:    n.Message,
		IsRead:     n.IsRead,
		ActionText: n.ActionText,
		ActionURL:  n.ActionURL,
		CreatedAt:  n.CreatedAt.UTC(),
	}
}

func toReportResponse(r *domain.Report) reportResponse {
	return reportResponse{
		ID:             r.ID,
		ReporterID:     r.ReporterID,
		ReportedUserID: r.ReportedUserID,
		Reason:         r.Reason,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

// mapSlice converts every element with fn, returning an empty (never nil)
// slice so lists always serialise as [].
func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
