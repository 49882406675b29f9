package api

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"draftmode/accounts"
)

type signupRequest struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type profileRequest struct {
	Name            string `form:"name" json:"name"`
	Email           string `form:"email" json:"email"`
	CurrentPassword string `form:"current_password" json:"current_password"`
	NewPassword     string `form:"new_password" json:"new_password"`
}

type deleteAccountRequest struct {
	Password string `form:"password" json:"password"`
}

func (m *Module) startSession(c *gin.Context, userID int) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, userID)
	return session.Save()
}

func (m *Module) endSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}

func (m *Module) signup(c *gin.Context) {
	var req signupRequest
	if !m.bind(c, &req) {
		return
	}

	user, err := m.accounts.Create(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		m.fail(c, err)
		return
	}

	if err := m.startSession(c, user.ID); err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (m *Module) login(c *gin.Context) {
	var req loginRequest
	if !m.bind(c, &req) {
		return
	}

	user, err := m.accounts.Verify(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		m.fail(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	if err := m.startSession(c, user.ID); err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (m *Module) logout(c *gin.Context) {
	if err := m.endSession(c); err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (m *Module) profile(c *gin.Context) {
	user, err := m.accounts.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (m *Module) updateProfile(c *gin.Context) {
	var req profileRequest
	if !m.bind(c, &req) {
		return
	}

	user, err := m.accounts.UpdateProfile(c.Request.Context(), currentUserID(c), accounts.ProfileUpdate{
		Name:            req.Name,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (m *Module) deleteAccount(c *gin.Context) {
	var req deleteAccountRequest
	if !m.bind(c, &req) {
		return
	}

	if err := m.accounts.Delete(c.Request.Context(), currentUserID(c), req.Password); err != nil {
		m.fail(c, err)
		return
	}

	if err := m.endSession(c); err != nil {
		m.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
