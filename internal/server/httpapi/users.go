package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

type registerUserRequest struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Secret   *string `json:"secret"`
}

type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	resp := userResponse{ID: u.ID, Username: u.Username}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

func (s *Server) registerUser(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, common.ErrorValidation)
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Username, req.Secret)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id": user.ID,
		"message": "User successfully created!",
	})
}

// listUsers returns all users, or a single-element list when filtered with
// the username query parameter.
func (s *Server) listUsers(c *gin.Context) {
	if username := c.Query("username"); username != "" {
		user, err := s.users.GetByUsername(c.Request.Context(), username)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, []userResponse{toUserResponse(user)})
		return
	}

	list, err := s.users.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(list))
	for _, u := range list {
		resp = append(resp, toUserResponse(u))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getUser(c *gin.Context) {
	user, err := s.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, common.ErrorValidation)
		return
	}

	user, err := s.users.Update(c.Request.Context(), identityFrom(c), req.Username, req.Secret)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) deleteUser(c *gin.Context) {
	if err := s.users.Delete(c.Request.Context(), identityFrom(c)); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User successfully deleted!"})
}
