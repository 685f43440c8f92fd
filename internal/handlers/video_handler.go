package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/services"
	"github.com/SAP-F-2025/learnhub-service/internal/utils"
)

type VideoHandler struct {
	BaseHandler
	videoService   services.VideoService
	commentService services.CommentService
}

func NewVideoHandler(videoService services.VideoService, commentService services.CommentService, logger utils.Logger) *VideoHandler {
	return &VideoHandler{
		BaseHandler:    NewBaseHandler(logger),
		videoService:   videoService,
		commentService: commentService,
	}
}

// CreateVideo publishes a video (teachers and admins)
// @Summary Create video
// @Tags videos
// @Accept json
// @Produce json
// @Param request body services.CreateVideoRequest true "Video"
// @Success 201 {object} models.Video
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Access denied"
// @Router /videos [post]
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.CreateVideoRequest
	if !h.bindJSON(c, &req) {
		return
	}

	video, err := h.videoService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Video created", "video_id", video.ID, "uploader_id", actor.ID)
	c.JSON(http.StatusCreated, video)
}

// ListVideos lists videos
// @Summary List videos
// @Tags videos
// @Produce json
// @Param uploader_id query string false "Uploader"
// @Param category_id query string false "Category"
// @Success 200 {array} models.Video
// @Router /videos [get]
func (h *VideoHandler) ListVideos(c *gin.Context) {
	videos, err := h.videoService.List(c.Request.Context(), repositories.VideoFilters{
		UploaderID:  c.Query("uploader_id"),
		CategoryID:  c.Query("category_id"),
		ListOptions: h.listOptions(c),
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

// GetVideo returns a video with the caller's like and bookmark flags
// @Summary Get video
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} services.VideoResponse
// @Failure 404 {object} ErrorResponse "Video not found"
// @Router /videos/{id} [get]
func (h *VideoHandler) GetVideo(c *gin.Context) {
	video, err := h.videoService.GetByID(c.Request.Context(), c.Param("id"), h.optionalActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// UpdateVideo changes a video's details (uploader or admin)
// @Summary Update video
// @Tags videos
// @Accept json
// @Produce json
// @Param id path string true "Video ID"
// @Param request body services.UpdateVideoRequest true "Fields to change"
// @Success 200 {object} models.Video
// @Router /videos/{id} [put]
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.UpdateVideoRequest
	if !h.bindJSON(c, &req) {
		return
	}

	video, err := h.videoService.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// DeleteVideo removes a video (uploader or admin)
// @Summary Delete video
// @Tags videos
// @Param id path string true "Video ID"
// @Success 204
// @Router /videos/{id} [delete]
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.videoService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.LogRequest(c, "Video deleted", "video_id", c.Param("id"))
	c.Status(http.StatusNoContent)
}

// RecordView counts one view
// @Summary Record view
// @Tags videos
// @Param id path string true "Video ID"
// @Success 204
// @Router /videos/{id}/view [post]
func (h *VideoHandler) RecordView(c *gin.Context) {
	if err := h.videoService.IncrementViews(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleLike likes or unlikes a video
// @Summary Toggle like
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} services.VideoResponse
// @Failure 409 {object} ErrorResponse "Toggle already in progress"
// @Router /videos/{id}/like [post]
func (h *VideoHandler) ToggleLike(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	video, err := h.videoService.ToggleLike(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// ToggleBookmark bookmarks or unbookmarks a video
// @Summary Toggle bookmark
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} services.VideoResponse
// @Router /videos/{id}/bookmark [post]
func (h *VideoHandler) ToggleBookmark(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	video, err := h.videoService.ToggleBookmark(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// RateVideo sets the caller's rating, replacing an earlier one
// @Summary Rate video
// @Tags videos
// @Accept json
// @Produce json
// @Param id path string true "Video ID"
// @Param request body services.RateVideoRequest true "Rating from 1 to 5"
// @Success 200 {object} services.VideoResponse
// @Router /videos/{id}/rate [post]
func (h *VideoHandler) RateVideo(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.RateVideoRequest
	if !h.bindJSON(c, &req) {
		return
	}
	video, err := h.videoService.Rate(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// ReportVideo files a report against a video
// @Summary Report video
// @Tags videos
// @Accept json
// @Produce json
// @Param id path string true "Video ID"
// @Param request body services.ReportVideoRequest true "Reason"
// @Success 201 {object} models.Report
// @Router /videos/{id}/report [post]
func (h *VideoHandler) ReportVideo(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.ReportVideoRequest
	if !h.bindJSON(c, &req) {
		return
	}
	report, err := h.videoService.Report(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.LogRequest(c, "Video reported", "video_id", report.VideoID, "report_id", report.ID)
	c.JSON(http.StatusCreated, report)
}

// ListReports lists a video's reports (uploader or admin)
// @Summary List reports
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {array} models.Report
// @Router /videos/{id}/reports [get]
func (h *VideoHandler) ListReports(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	reports, err := h.videoService.ListReports(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// ===== COMMENTS =====

// ListComments lists a video's comments with their replies
// @Summary List comments
// @Tags comments
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {array} services.CommentThread
// @Router /videos/{id}/comments [get]
func (h *VideoHandler) ListComments(c *gin.Context) {
	threads, err := h.commentService.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, threads)
}

// AddComment comments on a video
// @Summary Add comment
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Video ID"
// @Param request body services.CreateCommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Router /videos/{id}/comments [post]
func (h *VideoHandler) AddComment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.CreateCommentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	comment, err := h.commentService.Add(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a comment and its replies (author, video owner or admin)
// @Summary Delete comment
// @Tags comments
// @Param id path string true "Video ID"
// @Param cid path string true "Comment ID"
// @Success 204
// @Router /videos/{id}/comments/{cid} [delete]
func (h *VideoHandler) DeleteComment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.commentService.Delete(c.Request.Context(), actor, c.Param("id"), c.Param("cid")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListReplies lists a comment's replies
// @Summary List replies
// @Tags comments
// @Produce json
// @Param id path string true "Video ID"
// @Param cid path string true "Comment ID"
// @Success 200 {array} models.Reply
// @Router /videos/{id}/comments/{cid}/replies [get]
func (h *VideoHandler) ListReplies(c *gin.Context) {
	replies, err := h.commentService.ListReplies(c.Request.Context(), c.Param("id"), c.Param("cid"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, replies)
}

// AddReply replies to a comment
// @Summary Add reply
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Video ID"
// @Param cid path string true "Comment ID"
// @Param request body services.CreateCommentRequest true "Reply"
// @Success 201 {object} models.Reply
// @Router /videos/{id}/comments/{cid}/replies [post]
func (h *VideoHandler) AddReply(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.CreateCommentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	reply, err := h.commentService.AddReply(c.Request.Context(), actor, c.Param("id"), c.Param("cid"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}
