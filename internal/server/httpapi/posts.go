package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
)

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type postResponse struct {
	ID      string `json:"id"`
	BlogID  string `json:"blog_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func toPostResponse(p *models.Post) postResponse {
	return postResponse{ID: p.ID, BlogID: p.BlogID, Title: p.Title, Content: p.Content}
}

func (s *Server) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, common.ErrorValidation)
		return
	}

	post, err := s.posts.Create(c.Request.Context(), identityFrom(c), c.Param("id"), req.Title, req.Content)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"post_id": post.ID,
		"message": "Post successfully created!",
	})
}

func (s *Server) listPosts(c *gin.Context) {
	list, err := s.posts.ListByBlog(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := make([]postResponse, 0, len(list))
	for _, p := range list {
		resp = append(resp, toPostResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getPost(c *gin.Context) {
	post, err := s.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponse(post))
}

func (s *Server) updatePost(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, common.ErrorValidation)
		return
	}

	patch := services.PostPatch{Title: req.Title, Content: req.Content}

	post, err := s.posts.Update(c.Request.Context(), identityFrom(c), c.Param("id"), patch)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponse(post))
}

func (s *Server) deletePost(c *gin.Context) {
	if err := s.posts.Delete(c.Request.Context(), identityFrom(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post successfully deleted!"})
}
