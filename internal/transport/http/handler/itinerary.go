package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripcraft/internal/app"
	"tripcraft/internal/transport/http/response"
)

type ItineraryHandler struct {
	itineraryService *app.ItineraryService
}

type GenerateRequest struct {
	Destination string `json:"destination" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Budget      string `json:"budget" binding:"required"`
	TravelStyle string `json:"travel_style" binding:"required"`
}

type SaveRequest struct {
	Destination   string          `json:"destination" binding:"required"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Budget        string          `json:"budget"`
	TravelStyle   string          `json:"travel_style"`
	ItineraryJSON json.RawMessage `json:"itinerary_json" binding:"required"`
}

func NewItineraryHandler(itineraryService *app.ItineraryService) *ItineraryHandler {
	return &ItineraryHandler{itineraryService: itineraryService}
}

func (h *ItineraryHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	doc, err := h.itineraryService.Generate(c.Request.Context(), app.GenerateInput{
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
		TravelStyle: req.TravelStyle,
	})
	if err != nil {
		response.Detail(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.Data(http.StatusOK, "application/json", doc)
}

func (h *ItineraryHandler) Save(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, response.CredentialsMessage)
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	id, err := h.itineraryService.Save(app.SaveInput{
		UserID:        user.ID,
		Destination:   req.Destination,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Budget:        req.Budget,
		TravelStyle:   req.TravelStyle,
		ItineraryJSON: req.ItineraryJSON,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Detail(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Detail(c, http.StatusInternalServerError, "save itinerary failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Itinerary saved successfully",
		"id":      id,
	})
}

func (h *ItineraryHandler) ListSaved(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, response.CredentialsMessage)
		return
	}

	items, err := h.itineraryService.ListSaved(c.Request.Context(), user.ID)
	if err != nil {
		response.Detail(c, http.StatusInternalServerError, "list itineraries failed")
		return
	}

	c.JSON(http.StatusOK, items)
}
