package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recrutai/platform/internal/services"
	"github.com/recrutai/platform/internal/storage"
	"github.com/recrutai/platform/internal/utils"
)

type CompanyHandler struct {
	svc services.CompanyService
}

func NewCompanyHandler(svc services.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

func (h *CompanyHandler) Register(c *gin.Context) {
	var req services.RegisterCompanyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "CompanyHandler.Register", "invalid json body")
		return
	}

	company, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"company": company})
}

func (h *CompanyHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "CompanyHandler.Login", "invalid json body")
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"company":   sess.Company,
		"token":     sess.Token,
		"expiresAt": sess.ExpiresAt,
	})
}

func (h *CompanyHandler) VerifyToken(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	company, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (h *CompanyHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !requireSelf(c, "CompanyHandler.Get", id) {
		return
	}
	company, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (h *CompanyHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if !requireSelf(c, "CompanyHandler.Update", id) {
		return
	}

	var req services.UpdateCompanyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "CompanyHandler.Update", "invalid json body")
		return
	}

	company, err := h.svc.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

// UploadLogo accepts a multipart "logo" file.
func (h *CompanyHandler) UploadLogo(c *gin.Context) {
	const op = "CompanyHandler.UploadLogo"

	id := c.Param("id")
	if !requireSelf(c, op, id) {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxImageBytes+64<<10)
	fh, err := c.FormFile("logo")
	if err != nil {
		badRequest(c, op, "logo file is required")
		return
	}
	if fh.Size > storage.MaxImageBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "logo must be at most 2MB", nil))
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "failed to read logo", err))
		return
	}
	defer f.Close()

	company, err := h.svc.UploadLogo(c.Request.Context(), id, fh.Header.Get("Content-Type"), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company, "logoUrl": company.LogoURL})
}
