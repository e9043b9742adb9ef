package controllers

import (
	"errors"

	"ecofinds/models"
	"ecofinds/services"
	"ecofinds/utils"

	"github.com/gin-gonic/gin"
)

type SecurityController struct {
	securitySvc *services.SecurityService
}

func NewSecurityController(securitySvc *services.SecurityService) *SecurityController {
	return &SecurityController{securitySvc: securitySvc}
}

// GetStatus godoc
// @Summary Gate status
// @Description Whether the caller has a gate password, and the salt if so
// @Tags Security
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /security/me [get]
func (ctrl *SecurityController) GetStatus(c *gin.Context) {
	userID := c.GetInt("user_id")

	status, err := ctrl.securitySvc.Status(c.Request.Context(), userID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to load security status"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Security status retrieved", "data": status})
}

// SetPassword godoc
// @Summary Set gate password
// @Description Store the client-computed hash and salt, then issue a gate-passed token
// @Tags Security
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.SetPasswordRequest true "Hash and salt"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /security/password [post]
func (ctrl *SecurityController) SetPassword(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if err := ctrl.securitySvc.SetPassword(c.Request.Context(), userID, req.PasswordHash, req.Salt); err != nil {
		if errors.Is(err, services.ErrAuthRequired) {
			c.JSON(401, gin.H{"success": false, "message": "Must be signed in"})
			return
		}
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}

	token, err := utils.GenerateToken(userID, c.GetString("user_email"), c.GetString("user_role"), utils.GatePassed)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to issue token"})
		return
	}

	gate := services.GateFor(true, false, false, "")
	if err := gate.PasswordSet(); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Sign-in flow error"})
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Password set",
		"data":    gin.H{"token": token, "step": gate.Step()},
	})
}

// VerifyPassword godoc
// @Summary Verify gate password
// @Description Compare the client-computed hash; success issues a gate-passed token
// @Tags Security
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.VerifyPasswordRequest true "Hash to compare"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /security/verify [post]
func (ctrl *SecurityController) VerifyPassword(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	ok, err := ctrl.securitySvc.VerifyPassword(c.Request.Context(), userID, req.PasswordHash)
	if err != nil {
		if errors.Is(err, services.ErrLockedOut) {
			c.JSON(429, gin.H{"success": false, "message": "Too many attempts, try again later"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Verification failed"})
		return
	}

	if !ok {
		c.JSON(401, gin.H{"success": false, "message": "Incorrect password", "data": gin.H{"ok": false}})
		return
	}

	token, err := utils.GenerateToken(userID, c.GetString("user_email"), c.GetString("user_role"), utils.GatePassed)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to issue token"})
		return
	}

	gate := services.GateFor(true, false, true, "")
	if err := gate.PasswordVerified(); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Sign-in flow error"})
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Password verified",
		"data":    gin.H{"ok": true, "token": token, "step": gate.Step()},
	})
}
