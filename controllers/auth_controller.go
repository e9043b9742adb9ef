package controllers

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"ecofinds/config"
	"ecofinds/models"
	"ecofinds/repositories"
	"ecofinds/services"
	"ecofinds/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	userRepo    *repositories.UserRepository
	securitySvc *services.SecurityService
	emailSvc    *models.EmailService
}

func NewAuthController(userRepo *repositories.UserRepository, securitySvc *services.SecurityService, emailSvc *models.EmailService) *AuthController {
	return &AuthController{userRepo: userRepo, securitySvc: securitySvc, emailSvc: emailSvc}
}

func otpKey(email string) string {
	return "ecofinds:otp:" + email
}

// In-process OTP fallback for when Redis is down.
var (
	otpMu    sync.Mutex
	otpLocal = map[string]otpEntry{}
)

type otpEntry struct {
	hash    string
	expires time.Time
}

func storeOTP(ctx context.Context, email, hash string, ttl time.Duration) error {
	if models.RedisClient != nil {
		return models.RedisClient.Set(ctx, otpKey(email), hash, ttl).Err()
	}

	otpMu.Lock()
	defer otpMu.Unlock()
	otpLocal[email] = otpEntry{hash: hash, expires: time.Now().Add(ttl)}
	return nil
}

func takeOTP(ctx context.Context, email string) (string, bool) {
	if models.RedisClient != nil {
		hash, err := models.RedisClient.Get(ctx, otpKey(email)).Result()
		if err != nil {
			return "", false
		}
		models.RedisClient.Del(ctx, otpKey(email))
		return hash, true
	}

	otpMu.Lock()
	defer otpMu.Unlock()
	entry, ok := otpLocal[email]
	delete(otpLocal, email)
	if !ok || time.Now().After(entry.expires) {
		return "", false
	}
	return entry.hash, true
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestOTP godoc
// @Summary Request sign-in code
// @Description Email a one-time sign-in code
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RequestOTPRequest true "OTP Request"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/otp/request [post]
func (ctrl *AuthController) RequestOTP(c *gin.Context) {
	var req models.RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	code, err := generateOTP()
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to generate code"})
		return
	}

	hash, err := utils.HashSecret(code)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to generate code"})
		return
	}

	ttl, err := time.ParseDuration(config.AppConfig.OTPExpiry)
	if err != nil {
		ttl = 5 * time.Minute
	}

	if err := storeOTP(c.Request.Context(), req.Email, hash, ttl); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to store code"})
		return
	}

	if ctrl.emailSvc != nil {
		if err := ctrl.emailSvc.SendOTPEmail(req.Email, code); err != nil {
			log.Printf("Failed to send OTP email to %s: %v", req.Email, err)
		}
	} else {
		log.Printf("SMTP not configured, OTP for %s: %s", req.Email, code)
	}

	gate := services.NewGate()
	if err := gate.RequestOTP(req.Email); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Sign-in flow error"})
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Sign-in code sent",
		"data":    gin.H{"step": gate.Step(), "email": req.Email},
	})
}

// VerifyOTP godoc
// @Summary Verify sign-in code
// @Description Exchange the emailed code for a session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.VerifyOTPRequest true "Verify Request"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/otp/verify [post]
func (ctrl *AuthController) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	hash, ok := takeOTP(c.Request.Context(), req.Email)
	if !ok {
		c.JSON(401, gin.H{"success": false, "message": "Invalid or expired code"})
		return
	}

	valid, err := utils.VerifySecret(hash, req.Code)
	if err != nil || !valid {
		c.JSON(401, gin.H{"success": false, "message": "Invalid or expired code"})
		return
	}

	user, err := ctrl.userRepo.FindOrCreateByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Sign-in failed"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, utils.GatePending)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Sign-in failed"})
		return
	}

	status, err := ctrl.securitySvc.Status(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Sign-in failed"})
		return
	}

	gate := services.NewGate()
	gate.RequestOTP(req.Email)
	salt := ""
	if status.Salt != nil {
		salt = *status.Salt
	}
	gate.IdentityConfirmed(status.HasPassword, salt)

	c.JSON(200, gin.H{
		"success": true,
		"message": "Signed in",
		"data": gin.H{
			"token":        token,
			"user":         user,
			"step":         gate.Step(),
			"has_password": status.HasPassword,
			"salt":         status.Salt,
		},
	})
}

// SignInAnonymous godoc
// @Summary Anonymous sign-in
// @Description Create a guest identity and session token
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.Response
// @Router /auth/anonymous [post]
func (ctrl *AuthController) SignInAnonymous(c *gin.Context) {
	user, err := ctrl.userRepo.CreateAnonymous(c.Request.Context(), "Guest")
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Sign-in failed"})
		return
	}

	token, err := utils.GenerateToken(user.ID, "", user.Role, utils.GatePending)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Sign-in failed"})
		return
	}

	gate := services.NewGate()
	gate.IdentityConfirmed(false, "")

	c.JSON(200, gin.H{
		"success": true,
		"message": "Signed in as guest",
		"data": gin.H{
			"token": token,
			"user":  user,
			"step":  gate.Step(),
		},
	})
}

// GetSession godoc
// @Summary Current session
// @Description Report the caller's identity and sign-in step
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /auth/session [get]
func (ctrl *AuthController) GetSession(c *gin.Context) {
	userID := c.GetInt("user_id")

	if userID == 0 {
		c.JSON(200, gin.H{
			"success": true,
			"message": "Not signed in",
			"data":    gin.H{"authenticated": false, "step": services.NewGate().Step()},
		})
		return
	}

	user, err := ctrl.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		c.JSON(200, gin.H{
			"success": true,
			"message": "Not signed in",
			"data":    gin.H{"authenticated": false, "step": services.NewGate().Step()},
		})
		return
	}

	status, err := ctrl.securitySvc.Status(c.Request.Context(), userID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to load session"})
		return
	}

	salt := ""
	if status.Salt != nil {
		salt = *status.Salt
	}
	gatePassed := c.GetString("gate") == utils.GatePassed
	gate := services.GateFor(true, gatePassed, status.HasPassword, salt)

	c.JSON(200, gin.H{
		"success": true,
		"message": "Session retrieved",
		"data": gin.H{
			"authenticated": true,
			"user":          user,
			"step":          gate.Step(),
			"has_password":  status.HasPassword,
		},
	})
}
