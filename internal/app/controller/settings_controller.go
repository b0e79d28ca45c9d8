package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/app/service"
)

type SettingsController struct {
	settings service.SettingsService
}

func NewSettingsController(settings service.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

// GetPage passes a content page through
// GET /api/v1/settings/:page
func (ctrl *SettingsController) GetPage(c *gin.Context) {
	data, err := ctrl.settings.Page(c.Request.Context(), c.Param("page"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// GetSections lists the sections of a grade
// GET /api/v1/settings/sections/:grade_id
func (ctrl *SettingsController) GetSections(c *gin.Context) {
	gradeID, ok := parseIDParam(c, "grade_id")
	if !ok {
		return
	}

	data, err := ctrl.settings.Sections(c.Request.Context(), gradeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// GetRegions lists the regions of a city
// GET /api/v1/settings/regions/:city_id
func (ctrl *SettingsController) GetRegions(c *gin.Context) {
	cityID, ok := parseIDParam(c, "city_id")
	if !ok {
		return
	}

	data, err := ctrl.settings.Regions(c.Request.Context(), cityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// SendContact submits the contact form
// POST /api/v1/contact
func (ctrl *SettingsController) SendContact(c *gin.Context) {
	var req model.ContactMessage
	if !bindJSON(c, &req) {
		return
	}

	msg, err := ctrl.settings.SendContact(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
