package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // Identifiers

	"trusty_wallet/internal/service" // Business services
)

// EditProfileRequest is the body of PUT /users/:id/profile; blank fields are left unchanged
type EditProfileRequest struct {
	FirstName  string `json:"first_name" binding:"omitempty,min=4"` // New first name
	LastName   string `json:"last_name" binding:"omitempty,min=4"`  // New last name
	Email      string `json:"email" binding:"omitempty,email"`      // Must not belong to another user
	ProfilePic string `json:"profile_pic" binding:"omitempty,url"`  // Picture URL
}

// profileTarget resolves :id and allows it when it is the caller or the caller is an admin
func profileTarget(c *gin.Context, users *service.UserService) (uuid.UUID, bool) {
	callerUUID, ok := callerID(c)
	if !ok {
		return uuid.Nil, false
	}
	target, ok := pathID(c, "id")
	if !ok {
		return uuid.Nil, false
	}
	if target == callerUUID {
		return target, true // Own profile
	}
	caller, err := users.Get(c.Request.Context(), callerUUID) // Admins may access any profile
	if err != nil || !caller.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to access this profile"})
		return uuid.Nil, false
	}
	return target, true
}

// GetProfileHandler returns a user's profile
func GetProfileHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := profileTarget(c, users)
		if !ok {
			return
		}
		user, err := users.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// EditProfileHandler updates a user's profile
func EditProfileHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := profileTarget(c, users)
		if !ok {
			return
		}
		var req EditProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil { // Bind and validate JSON input
			badRequest(c, "Invalid request")
			return
		}
		user, err := users.Edit(c.Request.Context(), id, service.EditInput{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
			ProfilePic: req.ProfilePic,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
