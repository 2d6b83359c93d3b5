package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/dto"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/middleware"
)

// memberHandler handles HTTP requests related to cooperative members.
type memberHandler struct {
	memberService portssvc.MemberSvcFacade
}

func newMemberHandler(ms portssvc.MemberSvcFacade) *memberHandler {
	return &memberHandler{memberService: ms}
}

// registerMemberRoutes registers routes related to members.
func registerMemberRoutes(rg *gin.RouterGroup, memberService portssvc.MemberSvcFacade) {
	h := newMemberHandler(memberService)

	members := rg.Group("/members")
	{
		members.POST("", h.createMember)
		members.GET("", h.listMembers)
		members.GET("/:memberID", h.getMember)
		members.PUT("/:memberID", h.updateMember)
		members.DELETE("/:memberID", h.deleteMember)
	}
}

func memberIDParam(c *gin.Context) (int, bool) {
	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil || memberID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return 0, false
	}
	return memberID, true
}

// createMember godoc
// @Summary Onboard a new member
// @Description Creates a member with the next sequential id
// @Tags members
// @Accept json
// @Produce json
// @Param member body dto.CreateMemberRequest true "Member details"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /members [post]
func (h *memberHandler) createMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createMember", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	created, err := h.memberService.CreateMember(c.Request.Context(), userID, req)
	if err != nil {
		handleServiceError(c, err, "create member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMemberResponse(created))
}

// listMembers godoc
// @Summary List all members
// @Tags members
// @Produce json
// @Success 200 {array} dto.MemberResponse
// @Security BearerAuth
// @Router /members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	members, err := h.memberService.ListMembers(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMemberResponse(members))
}

// getMember godoc
// @Summary Get a member by id
// @Tags members
// @Produce json
// @Param memberID path int true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /members/{memberID} [get]
func (h *memberHandler) getMember(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	member, err := h.memberService.GetMember(c.Request.Context(), userID, memberID)
	if err != nil {
		handleServiceError(c, err, "retrieve member")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// updateMember godoc
// @Summary Update a member
// @Description Applies admin edits to a member (name, shares, forfeiture)
// @Tags members
// @Accept json
// @Produce json
// @Param memberID path int true "Member ID"
// @Param member body dto.UpdateMemberRequest true "Fields to update"
// @Success 200 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /members/{memberID} [put]
func (h *memberHandler) updateMember(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.memberService.UpdateMember(c.Request.Context(), userID, memberID, req)
	if err != nil {
		handleServiceError(c, err, "update member")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(updated))
}

// deleteMember godoc
// @Summary Delete a member
// @Description Removes a member and cascades to their payments, loans, repayments and penalties
// @Tags members
// @Param memberID path int true "Member ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /members/{memberID} [delete]
func (h *memberHandler) deleteMember(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), userID, memberID); err != nil {
		handleServiceError(c, err, "delete member")
		return
	}
	c.Status(http.StatusNoContent)
}
