package discount

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ImageUploader stores a promo image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, key string, body io.Reader) (string, error)
}

type Handler struct {
	service  *Service
	uploader ImageUploader
}

func NewHandler(service *Service, uploader ImageUploader) *Handler {
	return &Handler{service: service, uploader: uploader}
}

//
// --------------------------------------------------
// GET /discounts?branch&status&type
// --------------------------------------------------
//

func (h *Handler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		f := Filter{
			Branch: c.Query("branch"),
			Status: Status(c.Query("status")),
			Type:   Type(c.Query("type")),
		}

		discounts, err := h.service.List(c.Request.Context(), f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
			return
		}

		// list responses are safe to reuse for five minutes
		c.Header("Cache-Control", "public, max-age=300")
		c.JSON(http.StatusOK, gin.H{"success": true, "discounts": discounts})
	}
}

//
// --------------------------------------------------
// POST /discounts
// --------------------------------------------------
//

func (h *Handler) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		var d Discount
		if err := c.ShouldBindJSON(&d); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}

		if err := h.service.Create(c.Request.Context(), &d); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "discount": d})
	}
}

//
// --------------------------------------------------
// PUT /discounts
// --------------------------------------------------
//

func (h *Handler) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		var d Discount
		if err := c.ShouldBindJSON(&d); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}

		if err := h.service.Update(c.Request.Context(), &d); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "discount": d})
	}
}

//
// --------------------------------------------------
// DELETE /discounts?id=
// --------------------------------------------------
//

func (h *Handler) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing id"})
			return
		}

		if err := h.service.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

//
// --------------------------------------------------
// POST /discounts/calculate
// --------------------------------------------------
//

type calculateRequest struct {
	DiscountID         string  `json:"discountId"`
	Amount             float64 `json:"amount"`
	SelectedDealOption string  `json:"selectedDealOption,omitempty"`
	VisitCount         int     `json:"visitCount,omitempty"`
}

func (h *Handler) Calculate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req calculateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}

		d, err := h.service.Get(c.Request.Context(), req.DiscountID)
		if err != nil {
			respondError(c, err)
			return
		}

		result := Calculate(d, req.Amount, req.SelectedDealOption, req.VisitCount)
		if result == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "amount must be a positive number"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
	}
}

//
// --------------------------------------------------
// POST /discounts/:id/image
// --------------------------------------------------
//

func (h *Handler) UploadImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		file, header, err := c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing image file"})
			return
		}
		defer file.Close()

		key := fmt.Sprintf("discounts/%s/%s-%s", id, uuid.New().String(), header.Filename)
		url, err := h.uploader.Upload(c.Request.Context(), key, file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "image upload failed"})
			return
		}

		if err := h.service.SetImage(c.Request.Context(), id, url); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "imageUrl": url})
	}
}

// respondError maps service errors to the conventional status codes.
func respondError(c *gin.Context, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "validation failed",
			"fields":  verr.Fields,
		})
		return
	}
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "discount not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
}
