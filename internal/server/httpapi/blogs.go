package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
)

type createBlogRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type updateBlogRequest struct {
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

type blogResponse struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Subscribers []string `json:"subscribers"`
}

func toBlogResponse(b *models.Blog) blogResponse {
	subscribers := b.Subscribers
	if subscribers == nil {
		subscribers = []string{}
	}
	return blogResponse{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Title:       b.Title,
		Category:    b.Category,
		Description: b.Description,
		Subscribers: subscribers,
	}
}

func (s *Server) createBlog(c *gin.Context) {
	var req createBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, common.ErrorValidation)
		return
	}

	blog, err := s.blogs.Create(c.Request.Context(), identityFrom(c), req.Title, req.Category, req.Description)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"blog_id": blog.ID,
		"message": "Blog successfully created!",
	})
}

func (s *Server) listBlogs(c *gin.Context) {
	list, err := s.blogs.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := make([]blogResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, toBlogResponse(b))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getBlog(c *gin.Context) {
	blog, err := s.blogs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBlogResponse(blog))
}

// updateBlog is dual-purpose: owners edit the blog fields, everyone else is
// added as a subscriber and the body is ignored.
func (s *Server) updateBlog(c *gin.Context) {
	var req updateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, common.ErrorValidation)
		return
	}

	patch := services.BlogPatch{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
	}

	blog, outcome, err := s.blogs.Update(c.Request.Context(), identityFrom(c), c.Param("id"), patch)
	if err != nil {
		s.writeError(c, err)
		return
	}

	message := "Blog successfully updated!"
	if outcome == services.OutcomeSubscribed {
		message = "Subscribed to blog!"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"blog":    toBlogResponse(blog),
	})
}

func (s *Server) deleteBlog(c *gin.Context) {
	if err := s.blogs.Delete(c.Request.Context(), identityFrom(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog successfully deleted!"})
}

func (s *Server) subscribe(c *gin.Context) {
	blog, err := s.blogs.Subscribe(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Subscribed to blog!",
		"blog":    toBlogResponse(blog),
	})
}

func (s *Server) unsubscribe(c *gin.Context) {
	blog, err := s.blogs.Unsubscribe(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Unsubscribed from blog!",
		"blog":    toBlogResponse(blog),
	})
}
