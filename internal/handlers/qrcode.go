package handlers

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/pkg/response"
	"github.com/skip2/go-qrcode"
)

type QRCodeHandler struct {
	cfg *config.Config
}

func NewQRCodeHandler(cfg *config.Config) *QRCodeHandler {
	return &QRCodeHandler{cfg: cfg}
}

// FeedbackQR renders a PNG QR code linking to the public feedback form
// for a tenant, optionally pre-filled with a room number.
// GET /api/v1/qr/feedback?tenant=slug&room=101&size=256
func (h *QRCodeHandler) FeedbackQR(c *gin.Context) {
	tenant := c.Query("tenant")
	if tenant == "" {
		response.BadRequest(c, "tenant is required")
		return
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "256"))
	if err != nil || size < 64 || size > 1024 {
		response.BadRequest(c, "size must be between 64 and 1024")
		return
	}

	target, err := url.Parse(h.cfg.App.PublicBaseURL)
	if err != nil {
		response.ServerError(c, "invalid public base URL")
		return
	}
	target.Path = fmt.Sprintf("/feedback/%s", tenant)
	if room := c.Query("room"); room != "" {
		q := target.Query()
		q.Set("room", room)
		target.RawQuery = q.Encode()
	}

	png, err := qrcode.Encode(target.String(), qrcode.Medium, size)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(200, "image/png", png)
}
