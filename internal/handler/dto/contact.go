// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/contactdesk/contactdesk/internal/model"
)

// Envelope wraps every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SubmitRequest is the body of POST /api/submit.
type SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SubmitResponse carries the id of a stored submission.
type SubmitResponse struct {
	ID string `json:"id"`
}

// SubmissionResponse is a submission in API responses.
type SubmissionResponse struct {
	ID        string    `json:"id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmissionListResponse is the body of GET /api/submissions.
type SubmissionListResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
}

// ImproveRequest is the body of POST /api/ai/improve.
type ImproveRequest struct {
	Message  string `json:"message"`
	UserName string `json:"userName"`
}

// ImproveResponse carries the rewritten message.
type ImproveResponse struct {
	ImprovedMessage string `json:"improvedMessage"`
	TokensUsed      *int   `json:"tokensUsed,omitempty"`
}

// UsageResponse is the body of GET /api/ai/usage.
type UsageResponse struct {
	Count int `json:"count"`
}

// ServiceInfo is the body of GET /.
type ServiceInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToSubmissionResponse converts a model.Submission to its API shape.
func ToSubmissionResponse(sub *model.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:        sub.ID,
		UserName:  sub.UserName,
		Email:     sub.Email,
		Subject:   sub.Subject.String(),
		Message:   sub.Message,
		CreatedAt: sub.CreatedAt,
	}
}

// ToSubmissionListResponse converts submissions, keeping their order.
func ToSubmissionListResponse(subs []*model.Submission) SubmissionListResponse {
	out := SubmissionListResponse{Submissions: make([]SubmissionResponse, 0, len(subs))}
	for _, sub := range subs {
		out.Submissions = append(out.Submissions, ToSubmissionResponse(sub))
	}
	return out
}
