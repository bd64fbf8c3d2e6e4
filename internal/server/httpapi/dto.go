package httpapi

import (
	"mime/multipart"

	"github.com/dmitrijs2005/claimcheck/internal/server/models"
	"github.com/dmitrijs2005/claimcheck/internal/server/services"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type analyzeRequest struct {
	Policy      *multipart.FileHeader `form:"policy" binding:"required"`
	Claim       *multipart.FileHeader `form:"claim" binding:"required"`
	Bills       *multipart.FileHeader `form:"bills" binding:"required"`
	DoctorNotes *multipart.FileHeader `form:"doctor_notes" binding:"required"`
}

type historyQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

// analyzeResponse is the short form returned right after an analysis.
type analyzeResponse struct {
	ID              string         `json:"id"`
	Decision        models.Outcome `json:"decision"`
	Reasoning       string         `json:"reasoning"`
	ConfidenceScore *float64       `json:"confidence_score"`
	AnalyzedAt      string         `json:"analyzed_at"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, FullName: u.FullName}
}

func newTokenResponse(s *services.Session) tokenResponse {
	return tokenResponse{
		AccessToken: s.AccessToken,
		TokenType:   "bearer",
		User:        newUserResponse(s.User),
	}
}
