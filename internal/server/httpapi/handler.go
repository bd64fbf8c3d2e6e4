package httpapi

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dmitrijs2005/claimcheck/internal/common"
	"github.com/dmitrijs2005/claimcheck/internal/server/models"
	"github.com/dmitrijs2005/claimcheck/internal/server/services"
	"github.com/dmitrijs2005/claimcheck/internal/server/stage"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// UserService is the account side of the API.
type UserService interface {
	Register(ctx context.Context, email, password, fullName string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// ClaimService is the analysis side of the API.
type ClaimService interface {
	Analyze(ctx context.Context, userID string, docs []stage.Document) (*models.Analysis, error)
	History(ctx context.Context, userID string, limit int) ([]*models.Analysis, error)
	Get(ctx context.Context, userID, id string) (*models.Analysis, error)
}

type handler struct {
	users  UserService
	claims ClaimService
}

func (h *handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	sess, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTokenResponse(sess))
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	sess, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTokenResponse(sess))
}

func (h *handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, newUserResponse(currentUser(c)))
}

func (h *handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	docs, closeAll, err := openDocuments(map[stage.Kind]*multipart.FileHeader{
		stage.KindPolicy:      req.Policy,
		stage.KindClaim:       req.Claim,
		stage.KindBills:       req.Bills,
		stage.KindDoctorNotes: req.DoctorNotes,
	})
	defer closeAll()
	if err != nil {
		analyzeFailed(c, err)
		return
	}

	// the engine call and the ledger write finish even if the client goes away
	ctx := context.WithoutCancel(c.Request.Context())

	a, err := h.claims.Analyze(ctx, currentUser(c).ID, docs)
	if err != nil {
		analyzeFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, analyzeResponse{
		ID:              a.ID,
		Decision:        a.Decision,
		Reasoning:       a.Reasoning,
		ConfidenceScore: a.ConfidenceScore,
		AnalyzedAt:      a.AnalyzedAt.Format(time.RFC3339Nano),
	})
}

func analyzeFailed(c *gin.Context, err error) {
	if errors.Is(err, common.ErrMalformedRequest) {
		abortWithError(c, err)
		return
	}
	_ = c.Error(err)
	abortWithDetail(c, http.StatusInternalServerError, fmt.Sprintf("error analyzing claim: %v", err))
}

// openDocuments opens the uploaded parts in submission order. The returned
// func closes whatever was opened and is safe to call on error.
func openDocuments(parts map[stage.Kind]*multipart.FileHeader) ([]stage.Document, func(), error) {
	var files []multipart.File
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	docs := make([]stage.Document, 0, len(stage.Kinds))
	for _, kind := range stage.Kinds {
		fh := parts[kind]
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, fmt.Errorf("%w: open %s: %v", common.ErrStageIO, kind, err)
		}
		files = append(files, f)
		docs = append(docs, stage.Document{Kind: kind, Filename: fh.Filename, Body: f})
	}
	return docs, closeAll, nil
}

func (h *handler) history(c *gin.Context) {
	var q historyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	records, err := h.claims.History(c.Request.Context(), currentUser(c).ID, q.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *handler) show(c *gin.Context) {
	a, err := h.claims.Get(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
